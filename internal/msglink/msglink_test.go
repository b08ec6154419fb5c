package msglink

import "testing"

func TestResolvePublic(t *testing.T) {
	link, ok := Resolve("https://t.me/mychannel/42")
	if !ok {
		t.Fatal("expected match")
	}
	if link.Username != "mychannel" || link.MessageID != 42 || link.ChatID != 0 {
		t.Fatalf("link = %+v", link)
	}
}

func TestResolvePrivateReconstruction(t *testing.T) {
	link, ok := Resolve("https://t.me/c/1234567890/7")
	if !ok {
		t.Fatal("expected match")
	}
	if link.ChatID != -1001234567890 {
		t.Fatalf("chat id = %d, want -1001234567890", link.ChatID)
	}
	if link.MessageID != 7 || link.Username != "" {
		t.Fatalf("link = %+v", link)
	}
}

func TestResolvePrivateIsConcatenationNotArithmetic(t *testing.T) {
	// A fragment with a leading zero only survives literal digit
	// concatenation.
	link, ok := Resolve("https://t.me/c/0042/1")
	if !ok {
		t.Fatal("expected match")
	}
	if link.ChatID != -1000042 {
		t.Fatalf("chat id = %d, want -1000042", link.ChatID)
	}
}

func TestResolveNoMatch(t *testing.T) {
	inputs := []string{
		"",
		"not a url",
		"https://t.me/abc/42",           // handle shorter than 5 chars
		"https://t.me/1channel/42",      // handle starts with a digit
		"https://t.me/my-channel/42",    // handle contains a dash
		"https://t.me/mychannel",        // no message id
		"https://t.me/mychannel/42/7",   // extra path segment
		"https://t.me/mychannel/x",      // non-numeric message id
		"https://t.me/c/notdigits/7",    // non-numeric fragment
		"https://t.me/c/123",            // private form missing message id
		"t.me/mychannel/42",             // no scheme
		"https://t.me/mychannel/42?x=1", // trailing query
	}
	for _, in := range inputs {
		if link, ok := Resolve(in); ok {
			t.Fatalf("Resolve(%q) matched: %+v", in, link)
		}
	}
}

func TestResolveUnderscoreHandle(t *testing.T) {
	link, ok := Resolve("https://t.me/_chan1/9")
	if !ok {
		t.Fatal("expected match")
	}
	if link.Username != "_chan1" || link.MessageID != 9 {
		t.Fatalf("link = %+v", link)
	}
}

func TestResolveDeterministic(t *testing.T) {
	a, okA := Resolve("https://t.me/mychannel/42")
	b, okB := Resolve("https://t.me/mychannel/42")
	if okA != okB || a != b {
		t.Fatalf("non-deterministic: %+v/%v vs %+v/%v", a, okA, b, okB)
	}
}
