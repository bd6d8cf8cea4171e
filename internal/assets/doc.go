// Package assets resolves the fonts and bitmaps the ticket design needs.
//
// Every asset is addressed by a stable key: fonts by name, images by a hash of
// their URL. A Cache first consults its Store and only on a miss asks its
// Fetcher, persisting the result before returning it. Failures never reach
// the caller as errors: fonts fall back to the bundled Go fonts and images are
// reported as absent so the layer that wanted them can be skipped.
package assets
