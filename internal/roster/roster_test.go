package roster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const membersCSV = `id,full_name,last_name,constituencies,groups
197490,MANON AUBRY,AUBRY,[],[]
124738,jean-luc mélenchon,Mélenchon,[],[]
256789,Marie Le Pen,LE PEN,[],[]
`

// TestLoad tests reading the members file.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("resolves names", func(t *testing.T) {
		t.Parallel()

		r, err := Load(strings.NewReader(membersCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Len() != 3 {
			t.Errorf("expected 3 members, got %d", r.Len())
		}

		tests := []struct {
			name string
			want int
		}{
			{"Manon Aubry", 197490},
			{"Jean-Luc Mélenchon", 124738},
			{"Marie Le Pen", 256789},
		}
		for _, tt := range tests {
			id, ok := r.Lookup(tt.name)
			if !ok || id != tt.want {
				t.Errorf("Lookup(%q): expected %d, got %d (ok=%v)", tt.name, tt.want, id, ok)
			}
		}

		if _, ok := r.Lookup("MANON AUBRY"); ok {
			t.Error("expected display lookup to be exact")
		}
		if id, ok := r.ByLastName("aubry"); !ok || id != 197490 {
			t.Errorf("expected aubry to resolve, got %d (ok=%v)", id, ok)
		}
		if id, ok := r.ByLastName("Le Pen"); !ok || id != 256789 {
			t.Errorf("expected Le Pen to resolve, got %d (ok=%v)", id, ok)
		}
		if !r.Has(124738) || r.Has(1) {
			t.Error("unexpected membership result")
		}
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader("id,name\n1,x\n"))
		if !errors.Is(err, ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader("id,full_name,last_name\nx,A B,B\n"))
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("from file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "members.csv")
		if err := os.WriteFile(path, []byte(membersCSV), 0o600); err != nil {
			t.Fatal(err)
		}
		r, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Len() != 3 {
			t.Errorf("expected 3 members, got %d", r.Len())
		}
	})
}

// TestNilRoster tests that a nil roster resolves nothing.
func TestNilRoster(t *testing.T) {
	t.Parallel()

	var r *Roster
	if _, ok := r.Lookup("x"); ok {
		t.Error("expected no match")
	}
	if r.Has(1) || r.Len() != 0 {
		t.Error("expected empty roster")
	}
}

// TestCapitalize tests family name normalization.
func TestCapitalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"AUBRY":  "Aubry",
		"élise":  "Élise",
		"LE PEN": "Le pen",
		"":       "",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q): expected %q, got %q", in, want, got)
		}
	}
}

// TestPresent tests matching attendance names against the roster.
func TestPresent(t *testing.T) {
	t.Parallel()

	r, err := Load(strings.NewReader(membersCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := r.Present([]string{"Le Pen", "Manon Aubry", "Dupont"})
	if diff := cmp.Diff([]int{197490, 256789}, got); diff != "" {
		t.Errorf("present mismatch (-want +got):\n%s", diff)
	}
	if got := r.Present(nil); len(got) != 0 {
		t.Errorf("expected nobody, got %v", got)
	}
}
