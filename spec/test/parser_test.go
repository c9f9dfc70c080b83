package test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	verr "github.com/recipelang/ladle/error"
)

func TestParseTestCase(t *testing.T) {
	tests := []struct {
		src      string
		tc       *TestCase
		parseErr bool
	}{
		{
			src: `test
---
put x = 1;
---
accept
`,
			tc: &TestCase{
				Description: "test",
				Source:      []byte("put x = 1;"),
				Verdict:     &Verdict{Kind: VerdictAccept},
			},
		},
		{
			src: `
test

---

x

---

syntax 2:1

`,
			tc: &TestCase{
				Description: "\ntest\n",
				Source:      []byte("\nx\n"),
				Verdict: &Verdict{
					Kind:     VerdictSyntax,
					Position: &verr.Position{Row: 2, Col: 1},
				},
			},
		},
		// The length of a part delimiter may be greater than 3.
		{
			src: `
test
----
let x = 1;
----
lexical
`,
			tc: &TestCase{
				Description: "\ntest",
				Source:      []byte("let x = 1;"),
				Verdict:     &Verdict{Kind: VerdictLexical},
			},
		},
		// The description and the source may be empty.
		{
			src: `----
----
accept
`,
			tc: &TestCase{
				Description: "",
				Source:      []byte{},
				Verdict:     &Verdict{Kind: VerdictAccept},
			},
		},
		{
			src: `test
---
for
`,
			parseErr: true,
		},
		{
			src: `test
---
for
---
mapping
---
mapping
`,
			parseErr: true,
		},
		{
			src: `test
---
x
---
crash
`,
			parseErr: true,
		},
		{
			src: `test
---
x;
---
accept 1:1
`,
			parseErr: true,
		},
		{
			src: `test
---
x;
---
syntax at 1:1
`,
			parseErr: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			tc, err := ParseTestCase(strings.NewReader(tt.src))
			if tt.parseErr {
				if err == nil {
					t.Fatalf("an expected error didn't occur")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(tc, tt.tc) {
				t.Fatalf("unexpected test case; want: %#v, got: %#v", tt.tc, tc)
			}
		})
	}
}

func TestVerdict_String(t *testing.T) {
	v := &Verdict{Kind: VerdictSyntax, Position: &verr.Position{Row: 3, Col: 14}}
	if v.String() != "syntax 3:14" {
		t.Fatalf("unexpected text: %v", v)
	}
	if _, ok := ParseVerdictKind("reject"); ok {
		t.Fatal("an unknown verdict kind must be rejected")
	}
}
