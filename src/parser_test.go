package gibscript

import (
	"errors"
	"testing"
)

func TestMatchDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		open   int
		legacy bool
		want   int
	}{
		{"nested braces", "{a{b}c}", 0, false, 6},
		{"escaped quote", `"a\"b"`, 0, false, 5},
		{"quote inside brace", `{a "}" b}`, 0, false, 8},
		{"nested brackets", "[a[b]]", 0, false, 5},
		{"bracket holds brace", "[{]}]", 0, false, 4},
		{"unterminated", "{abc", 0, false, NotFound},
		{"not a delimiter", "x", 0, false, NotFound},
		{"legacy quote ignores escape", `"a\"b`, 0, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchDelimiter(tt.s, tt.open, tt.legacy)
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestEscapeAndCollapse(t *testing.T) {
	if got := EscapeChars("a$b", "$"); got != `a\$b` {
		t.Errorf("Expected a\\$b, got %q", got)
	}
	if got := EscapeChars(`a\$b`, "$"); got != `a\$b` {
		t.Errorf("Expected already escaped text unchanged, got %q", got)
	}
	if got := EscapeChars("plain", "$#"); got != "plain" {
		t.Errorf("Expected plain, got %q", got)
	}

	if got := collapseEscapes(`a\$b\\c\n`); got != "a$b\\c\n" {
		t.Errorf("Expected escapes collapsed, got %q", got)
	}
	if got := collapseEscapes(`\`); got != `\` {
		t.Errorf("Expected single backslash kept, got %q", got)
	}
}

func TestExtractLine(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		legacy   bool
		wantLine string
		wantRest string
	}{
		{"semicolon", "a; b", false, "a", " b"},
		{"quoted semicolon", `echo "x;y"; z`, false, `echo "x;y"`, " z"},
		{"braced statement", "if {a; b}\nc", false, "if {a; b}", "c"},
		{"comment", "echo a // note\nb", false, "echo a ", "b"},
		{"escaped newline", "a\\\nb", false, "ab", ""},
		{"legacy ignores braces", "{a; b}", true, "{a", " b}"},
		{"last line", "tail", false, "tail", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, rest := ExtractLine(tt.text, tt.legacy)
			if line != tt.wantLine {
				t.Errorf("Expected line %q, got %q", tt.wantLine, line)
			}
			if rest != tt.wantRest {
				t.Errorf("Expected rest %q, got %q", tt.wantRest, rest)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("quoted token", func(t *testing.T) {
		st, err := Tokenize(`echo "a b" c`, false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if st.Argc() != 3 {
			t.Fatalf("Expected 3 tokens, got %d", st.Argc())
		}
		tok := st.Tokens[1]
		if tok.Original != "a b" || tok.Delim != DelimQuote || tok.Offset != 5 {
			t.Errorf("Expected quoted \"a b\" at 5, got %q %v at %d", tok.Original, tok.Delim, tok.Offset)
		}
		if tok.State != TokenPending {
			t.Errorf("Expected quoted token to need substitution, got %v", tok.State)
		}
	})

	t.Run("braced token is verbatim", func(t *testing.T) {
		st, err := Tokenize("if {echo $x} {y}", false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if st.Argc() != 3 {
			t.Fatalf("Expected 3 tokens, got %d", st.Argc())
		}
		if st.Tokens[1].Original != "echo $x" || st.Tokens[1].State != TokenOriginal {
			t.Errorf("Expected verbatim brace token, got %q state %v", st.Tokens[1].Original, st.Tokens[1].State)
		}
	})

	t.Run("bare word with embedded braces", func(t *testing.T) {
		st, err := Tokenize("echo ~{strlen a b}!", false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if st.Argc() != 2 || st.Tokens[1].Original != "~{strlen a b}!" {
			t.Errorf("Expected one bare token, got %d tokens", st.Argc())
		}
	})

	t.Run("unmatched delimiter", func(t *testing.T) {
		_, err := Tokenize(`echo "abc`, false)
		if !errors.Is(err, ErrParse) {
			t.Errorf("Expected parse error, got %v", err)
		}
		_, err = Tokenize("echo }", false)
		if !errors.Is(err, ErrParse) {
			t.Errorf("Expected parse error for stray brace, got %v", err)
		}
	})

	t.Run("pipe forces legacy", func(t *testing.T) {
		st, err := Tokenize("|echo {a b}", false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !st.Legacy {
			t.Error("Expected legacy statement")
		}
		if st.Argc() != 3 {
			t.Errorf("Expected braces to be ordinary characters, got %d tokens", st.Argc())
		}
	})
}

func TestRebuild(t *testing.T) {
	st, err := Tokenize(`echo "$x" y`, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := st.Rebuild(); got != `echo "$x" y` {
		t.Errorf("Expected unchanged line, got %q", got)
	}

	st.Tokens[1].Processed = "hello world"
	st.Tokens[1].State = TokenDone
	if got := st.Rebuild(); got != `echo "hello world" y` {
		t.Errorf("Expected spliced line, got %q", got)
	}
	if got := st.Line[st.Tokens[2].lineOffset:]; got != "y" {
		t.Errorf("Expected offset of last token to follow the growth, got %q", got)
	}
	if st.Raw != `echo "$x" y` {
		t.Errorf("Expected raw text untouched, got %q", st.Raw)
	}
}
