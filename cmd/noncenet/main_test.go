package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "noncenet version dev") {
		t.Fatalf("output=%q", out.String())
	}
}

func TestLoginCmd_MissingConfig(t *testing.T) {
	var errOut bytes.Buffer
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"login", "--site", "shop", "--config", t.TempDir() + "/missing.yaml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("err=%v; want config read error", err)
	}
}

func TestHeaderFlag(t *testing.T) {
	t.Cleanup(func() {
		for k := range headerFlags {
			delete(headerFlags, k)
		}
	})

	flags := rootCmd.PersistentFlags()
	if err := flags.Parse([]string{"--header", "X-Tenant=shop, X-Debug=1", "--header", "X-Trace=a=b"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{"X-Tenant": "shop", "X-Debug": "1", "X-Trace": "a=b"}
	for k, v := range want {
		if headerFlags[k] != v {
			t.Fatalf("headerFlags[%s]=%q; want %q (all=%v)", k, headerFlags[k], v, headerFlags)
		}
	}

	if err := flags.Parse([]string{"--header", "novalue"}); err == nil {
		t.Fatal("expected malformed header to fail")
	}
}
