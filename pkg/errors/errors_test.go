package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	plain := New(ErrCodeInvalidInput, "bad value: %d", 42)
	if got := plain.Error(); got != "INVALID_INPUT: bad value: 42" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(ErrCodeLayout, stderrors.New("engine exploded"), "lay out %s", "doc")
	if got := wrapped.Error(); !strings.Contains(got, "LAYOUT_ERROR") || !strings.Contains(got, "engine exploded") {
		t.Errorf("wrapped Error() = %q, want code and cause", got)
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeParse, "bad token")

	if !Is(err, ErrCodeParse) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeRender) {
		t.Error("Is should not match a different code")
	}
	if GetCode(err) != ErrCodeParse {
		t.Errorf("GetCode = %q, want %q", GetCode(err), ErrCodeParse)
	}

	// Codes survive another layer of stdlib wrapping.
	outer := fmt.Errorf("context: %w", err)
	if !Is(outer, ErrCodeParse) {
		t.Error("Is should unwrap through fmt.Errorf")
	}
	if GetCode(outer) != ErrCodeParse {
		t.Errorf("GetCode through wrap = %q, want %q", GetCode(outer), ErrCodeParse)
	}

	if GetCode(stderrors.New("plain")) != "" {
		t.Error("GetCode on a plain error should be empty")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(ErrCodeInternal, cause, "while doing things")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidDialect, "unknown dialect: %q", "vhdl")
	if got := UserMessage(err); strings.Contains(got, "INVALID_DIALECT") {
		t.Errorf("UserMessage = %q, should not include the code", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"valid", "a -> b", false},
		{"empty", "", true},
		{"whitespace only", "   \n\t", true},
		{"null byte", "a -> b\x00", true},
		{"too large", strings.Repeat("x", maxSourceBytes+1), true},
		{"just under the cap", strings.Repeat("x", maxSourceBytes), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.src)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSource error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %q, want INVALID_INPUT", GetCode(err))
			}
		})
	}
}

func TestValidateDialect(t *testing.T) {
	for _, name := range []string{"", "auto", "native", "plantuml", "mermaid", "Mermaid"} {
		if err := ValidateDialect(name); err != nil {
			t.Errorf("ValidateDialect(%q) = %v, want nil", name, err)
		}
	}
	if err := ValidateDialect("graphml"); !Is(err, ErrCodeInvalidDialect) {
		t.Errorf("ValidateDialect(graphml) = %v, want INVALID_DIALECT", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", "out/diagram.svg", false},
		{"valid absolute", "/tmp/diagram.svg", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd", true},
		{"control char", "out\x01.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	for _, id := range []string{"api", "api-gateway", "schema.table", "foo_bar", "2fa"} {
		if err := ValidateIdentifier(id); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", id, err)
		}
	}
	for _, id := range []string{"", "-leading", ".leading", "has space", "semi;colon"} {
		if err := ValidateIdentifier(id); err == nil {
			t.Errorf("ValidateIdentifier(%q) = nil, want error", id)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "json", "dot", "SVG"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("png"); !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) = %v, want INVALID_FORMAT", err)
	}
}
