package guests

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadCSV(t *testing.T) {
	in := "\ufeffName, Phone ,ticket_code,batch,notes\n" +
		"Ahmed Reshad,+8801000000000,CMHS-0001,2019,vip\n" +
		",,,,\n" +
		"  Rahim  ,,CMHS-0002\n"
	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Guest{
		{Name: "Ahmed Reshad", Batch: "2019", Phone: "+8801000000000", TicketCode: "CMHS-0001"},
		{Name: "Rahim", TicketCode: "CMHS-0002"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadCSV = %+v\nwant %+v", got, want)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := map[string]string{
		"empty":      "",
		"no code":    "name,batch,phone\nA,1,2\n",
		"bad quotes": "name,ticket_code\n\"A,1\n",
	}
	for name, in := range tests {
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadGuestsFromDataDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadGuestsFromDataDir(dir); !errors.Is(err, ErrNoGuestList) {
		t.Fatalf("empty dir: err = %v, want ErrNoGuestList", err)
	}

	writeFile(t, dir, MainFile, "name,batch,phone,ticket_code\nA,2019,1,C-1\n")
	gs, err := LoadGuestsFromDataDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 || gs[0].Source != MainFile {
		t.Fatalf("main only: %+v", gs)
	}

	writeFile(t, dir, ExtraFile, "ticket_code,name\nC-2,B\nC-3,C\n")
	gs, err = LoadGuestsFromDataDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var codes []string
	for _, g := range gs {
		codes = append(codes, g.TicketCode)
	}
	if want := []string{"C-1", "C-2", "C-3"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
	if gs[2].Source != ExtraFile {
		t.Errorf("extra guest source = %q", gs[2].Source)
	}

	writeFile(t, dir, ExtraFile, "name\nbroken\n")
	if _, err := LoadGuestsFromDataDir(dir); err == nil {
		t.Error("expected error for extra list without ticket_code")
	}
}

func TestFilter(t *testing.T) {
	list := []Guest{
		{Name: "Ahmed Reshad", Batch: "2019", Phone: "+8801000000000", TicketCode: "CMHS-0001"},
		{Name: "Karim Uddin", Batch: "2018", Phone: "+8801711111111", TicketCode: "CMHS-0002"},
		{Name: "Nadia Islam", Batch: "2019", Phone: "", TicketCode: ""},
	}
	tests := []struct {
		name string
		opt  FilterOptions
		want []string
	}{
		{"all", FilterOptions{}, []string{"Ahmed Reshad", "Karim Uddin", "Nadia Islam"}},
		{"batch", FilterOptions{Batches: []string{" 2019"}}, []string{"Ahmed Reshad", "Nadia Islam"}},
		{"has code", FilterOptions{Batches: []string{"2019"}, HasCode: true}, []string{"Ahmed Reshad"}},
		{"free words all match", FilterOptions{FreeWords: "karim 0002"}, []string{"Karim Uddin"}},
		{"free words phone", FilterOptions{FreeWords: "+88017"}, []string{"Karim Uddin"}},
		{"free words miss", FilterOptions{FreeWords: "ahmed 0002"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, g := range Filter(list, tt.opt) {
				got = append(got, g.Name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuestRequest(t *testing.T) {
	g := Guest{Name: "A", Batch: "B", Phone: "P", TicketCode: "C", Source: MainFile}
	r := g.Request()
	if r.Name != "A" || r.Batch != "B" || r.Phone != "P" || r.Code != "C" {
		t.Fatalf("Request() = %+v", r)
	}
}
