package salt

import "testing"

func TestULIDSource_Salt(t *testing.T) {
	src := NewULIDSource()

	a := src.Salt()
	b := src.Salt()

	if len(a) != 26 {
		t.Errorf("expected 26-character ULID, got %q", a)
	}
	if a == b {
		t.Error("consecutive salts must differ")
	}
}
