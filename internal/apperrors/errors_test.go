package apperrors

import (
	"errors"
	"testing"
)

func TestTransportErrorIsAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewTransportError("http://animesub.info/katalog.php", cause)

	if !errors.Is(err, &TransportError{}) {
		t.Fatalf("expected errors.Is to match by type")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to unwrap to cause")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error message")
	}
}

func TestSessionDataError(t *testing.T) {
	err := NewSessionDataError(21684)

	var target *SessionDataError
	if !errors.As(err, &target) {
		t.Fatalf("expected errors.As to match")
	}
	if target.SubtitleID != 21684 {
		t.Fatalf("expected SubtitleID 21684, got %d", target.SubtitleID)
	}
}

func TestSecurityError(t *testing.T) {
	err := NewSecurityError(21684, "abc123", "PHPSESSID=xyz")

	if !errors.Is(err, &SecurityError{}) {
		t.Fatalf("expected errors.Is to match by type")
	}
	if err.Sh != "abc123" || err.Cookie != "PHPSESSID=xyz" {
		t.Fatalf("expected Sh/Cookie preserved, got %+v", err)
	}
}

func TestArchiveErrorEmpty(t *testing.T) {
	err := NewEmptyArchiveError()

	if err.Reason != ErrEmptyArchive {
		t.Fatalf("expected reason %q, got %q", ErrEmptyArchive, err.Reason)
	}
	if !errors.Is(err, &ArchiveError{}) {
		t.Fatalf("expected errors.Is to match by type")
	}
}

func TestDecomposeError(t *testing.T) {
	err := NewDecomposeError("", "empty input")

	if !errors.Is(err, &DecomposeError{}) {
		t.Fatalf("expected errors.Is to match by type")
	}
	if err.Input != "" || err.Reason != "empty input" {
		t.Fatalf("expected fields preserved, got %+v", err)
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{
		NewTransportError("u", errors.New("x")),
		NewSessionDataError(1),
		NewSecurityError(1, "s", "c"),
		NewArchiveError("r"),
		NewDecomposeError("i", "r"),
	}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Fatalf("expected kind %d not to match kind %d", i, j)
			}
		}
	}
}
