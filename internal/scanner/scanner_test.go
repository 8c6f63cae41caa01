package scanner

import "testing"

func TestNextLogicalLine_SkipsBlankAndComment(t *testing.T) {
	sc := New([]byte("\n// a comment\n0,Foo=Bar\n\n-100\n"))
	var got []string
	for {
		line, ok := sc.NextLogicalLine()
		if !ok {
			break
		}
		got = append(got, line)
	}
	want := []string{"0,Foo=Bar", "-100"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q want %q", i, got[i], want[i])
		}
	}
}

func TestNextLogicalLine_JoinsContinuation(t *testing.T) {
	sc := New([]byte("100,Name=F-16\\\nCallSign=Viper\n"))
	line, ok := sc.NextLogicalLine()
	if !ok {
		t.Fatalf("expected a line")
	}
	want := "100,Name=F-16\nCallSign=Viper"
	if line != want {
		t.Fatalf("line = %q want %q", line, want)
	}
}

func TestNextLogicalLine_EscapedBackslashNotContinuation(t *testing.T) {
	// A line ending in an escaped backslash ("\\\\") is not a
	// continuation: the visible backslash is literal, not an escape of
	// the line terminator.
	sc := New([]byte("100,Comments=literal\\\\\n200,Name=Next\n"))
	line1, ok := sc.NextLogicalLine()
	if !ok {
		t.Fatalf("expected first line")
	}
	if line1 != `100,Comments=literal\\` {
		t.Fatalf("line1 = %q", line1)
	}
	line2, ok := sc.NextLogicalLine()
	if !ok || line2 != "200,Name=Next" {
		t.Fatalf("line2 = %q ok=%v", line2, ok)
	}
}

func TestNew_StripsLeadingBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("FileType=text/acmi/tacview\n")...)
	sc := New(input)
	line, ok := sc.NextPhysicalLine()
	if !ok {
		t.Fatalf("expected a line")
	}
	if line != "FileType=text/acmi/tacview" {
		t.Fatalf("line = %q", line)
	}
}

func TestNextPhysicalLine_NormalizesCRLF(t *testing.T) {
	sc := New([]byte("a\r\nb\r\n"))
	l1, _ := sc.NextPhysicalLine()
	l2, _ := sc.NextPhysicalLine()
	if l1 != "a" || l2 != "b" {
		t.Fatalf("l1=%q l2=%q", l1, l2)
	}
}
