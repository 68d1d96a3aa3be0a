package main

import "testing"

func TestParseResultLine(t *testing.T) {
	out := "some noise\nresult: trace_len=7 bugs=1 complete=false deadlock=true\n  W(x)=1\n  bug[DataRace]: boom\n"
	res, err := parseResultLine(out)
	if err != nil {
		t.Fatalf("parseResultLine: %v", err)
	}
	want := scenarioResult{traceLen: 7, bugs: 1, complete: false, deadlock: true}
	if res != want {
		t.Fatalf("got %+v, want %+v", res, want)
	}
}

func TestParseResultLineError(t *testing.T) {
	out := "result: error=\"scenario panicked\"\n"
	if _, err := parseResultLine(out); err == nil {
		t.Fatal("expected an error for a result line reporting error=")
	}
}

func TestParseResultLineMissing(t *testing.T) {
	if _, err := parseResultLine("nothing to see here\n"); err == nil {
		t.Fatal("expected an error when no result line is present")
	}
}
