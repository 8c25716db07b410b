package phylo

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

const testTree = "((A:1,B:2):3,(C:4,D:5):6);"

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseNewick(t *testing.T) {
	tr, err := ParseNewick(testTree)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Tips() != 4 {
		t.Fatalf("Tips = %d, want 4", tr.Tips())
	}
	for _, tip := range []string{"A", "B", "C", "D"} {
		if !tr.HasTip(tip) {
			t.Fatalf("missing tip %q", tip)
		}
	}
	if tr.HasTip("E") {
		t.Fatal("unexpected tip E")
	}
}

func TestParseNewickErrors(t *testing.T) {
	cases := []string{
		"",
		"(A:1,B:2)",       // no terminator
		"(A:1,B:2;",       // unterminated clade
		"(A:1,B:abc):1;",  // bad length
		"(:1,:2):3;",      // no labelled tips
	}
	for _, in := range cases {
		if _, err := ParseNewick(in); err == nil {
			t.Errorf("ParseNewick(%q): expected error", in)
		}
	}
}

func TestPDSiblingPair(t *testing.T) {
	tr, err := ParseNewick(testTree)
	if err != nil {
		t.Fatal(err)
	}
	// MRCA of A and B is their direct parent: 1 + 2.
	pd, err := tr.PD([]string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(pd, 3) {
		t.Fatalf("PD(A,B) = %v, want 3", pd)
	}
}

func TestPDAcrossClades(t *testing.T) {
	tr, err := ParseNewick(testTree)
	if err != nil {
		t.Fatal(err)
	}
	// MRCA of A and C is the root: 1 + 3 + 4 + 6.
	pd, err := tr.PD([]string{"A", "C"})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(pd, 14) {
		t.Fatalf("PD(A,C) = %v, want 14", pd)
	}

	// All four tips: every branch once = 1+2+3+4+5+6.
	pd, err = tr.PD([]string{"A", "B", "C", "D"})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(pd, 21) {
		t.Fatalf("PD(all) = %v, want 21", pd)
	}
}

func TestPDSkipsUnknownTips(t *testing.T) {
	tr, err := ParseNewick(testTree)
	if err != nil {
		t.Fatal(err)
	}
	pd, err := tr.PD([]string{"A", "B", "Zea_mays"})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(pd, 3) {
		t.Fatalf("PD with unknown tip = %v, want 3", pd)
	}
}

func TestPDUnderTwoTips(t *testing.T) {
	tr, err := ParseNewick(testTree)
	if err != nil {
		t.Fatal(err)
	}
	for _, tips := range [][]string{nil, {"A"}, {"A", "A"}, {"nope", "also-nope"}} {
		pd, err := tr.PD(tips)
		if err != nil {
			t.Fatal(err)
		}
		if pd != 0 {
			t.Fatalf("PD(%v) = %v, want 0", tips, pd)
		}
	}
}

func TestLoadTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guild.nwk")
	if err := os.WriteFile(path, []byte(testTree+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tr, err := LoadTree(path)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Tips() != 4 {
		t.Fatalf("Tips = %d", tr.Tips())
	}

	if _, err := LoadTree(filepath.Join(t.TempDir(), "missing.nwk")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
