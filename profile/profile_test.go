package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	data := `id,name,score,active,note
1,alice,12.5,true,
2,bob,7,false,NA
3,,null,TRUE,x
`
	p, err := Read(strings.NewReader(data), ',')
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if p.Rows != 3 {
		t.Errorf("Rows = %d, want 3", p.Rows)
	}
	want := []Column{
		{"id", Integer, 0},
		{"name", String, 1},
		{"score", Float, 1},
		{"active", Boolean, 0},
		{"note", String, 2},
	}
	if len(p.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(p.Columns), len(want))
	}
	for i, w := range want {
		if p.Columns[i] != w {
			t.Errorf("column %d = %+v, want %+v", i, p.Columns[i], w)
		}
	}
}

func TestRead_Delimiter(t *testing.T) {
	p, err := Read(strings.NewReader("a;b\n1;\n;\n"), ';')
	if err != nil {
		t.Fatal(err)
	}
	if p.Rows != 2 || p.Columns[0].Type != Integer || p.Columns[1].Type != Empty || p.Columns[1].Nulls != 2 {
		t.Errorf("Read() = %+v", p)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"ragged row", "a,b\n1,2,3\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tc.data), ','); err == nil {
				t.Error("Read() succeeded, want an error")
			}
		})
	}
}

func TestWiden(t *testing.T) {
	tests := []struct {
		a, b, want Type
	}{
		{Empty, Integer, Integer},
		{Integer, Float, Float},
		{Float, Integer, Float},
		{Boolean, Integer, String},
		{String, Empty, String},
	}
	for _, tc := range tests {
		if got := widen(tc.a, tc.b); got != tc.want {
			t.Errorf("widen(%s, %s) = %s, want %s", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("x\n1\n2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := File(path, ',')
	if err != nil {
		t.Fatal(err)
	}
	if p.Rows != 2 {
		t.Errorf("Rows = %d, want 2", p.Rows)
	}
	if _, err := File(filepath.Join(t.TempDir(), "missing.csv"), ','); err == nil {
		t.Error("File() on a missing file succeeded")
	}
}
