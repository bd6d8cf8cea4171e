package assets

// Font names used by the ticket design.
const (
	PlayfairBlack    = "PlayfairDisplay-Black"
	PlayfairBold     = "PlayfairDisplay-Bold"
	PTSansRegular    = "PTSans-Regular"
	PTSansBold       = "PTSans-Bold"
	CormorantRegular = "CormorantGaramond-Regular"
	CormorantItalic  = "CormorantGaramond-Italic"
)

// Decorative bitmaps.
const (
	BackgroundURL = "https://res.cloudinary.com/dzdf1wu5x/image/upload/v1772005693/Screenshot_2026-02-25_134738_yrcmn0.png"
	LanternURL    = "https://res.cloudinary.com/dzdf1wu5x/image/upload/v1771999550/85213-removebg-preview_sgldmm.png"
	LogoURL       = "https://res.cloudinary.com/dzdf1wu5x/image/upload/v1771998698/Expressive_Graffiti_Logo_for_Ramadan_Iftar-removebg-preview_ixylto.png"
)

// DefaultFontURLs maps font names to their upstream TTF files.
var DefaultFontURLs = map[string]string{
	PlayfairBold:     "https://github.com/google/fonts/raw/main/ofl/playfairdisplay/static/PlayfairDisplay-Bold.ttf",
	PlayfairBlack:    "https://github.com/google/fonts/raw/main/ofl/playfairdisplay/static/PlayfairDisplay-Black.ttf",
	PTSansRegular:    "https://github.com/google/fonts/raw/main/ofl/ptsans/PTSans-Regular.ttf",
	PTSansBold:       "https://github.com/google/fonts/raw/main/ofl/ptsans/PTSans-Bold.ttf",
	CormorantRegular: "https://github.com/google/fonts/raw/main/ofl/cormorantgaramond/CormorantGaramond-Regular.ttf",
	CormorantItalic:  "https://github.com/google/fonts/raw/main/ofl/cormorantgaramond/CormorantGaramond-Italic.ttf",
}

// DefaultImageURLs lists every remote bitmap the design may draw.
var DefaultImageURLs = []string{BackgroundURL, LanternURL, LogoURL}

// FontURLsFromBase points every known font at base/<name>.ttf.
func FontURLsFromBase(base string) map[string]string {
	m := make(map[string]string, len(DefaultFontURLs))
	for name := range DefaultFontURLs {
		m[name] = base + "/" + name + ".ttf"
	}
	return m
}
