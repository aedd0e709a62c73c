/*
 * marrow VM - A Java virtual machine
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package util

import "testing"

func TestParseIncomingParamsFromMethType(t *testing.T) {
	res := ParseIncomingParamsFromMethTypeString("(SBI)")
	if len(res) != 3 {
		t.Errorf("expected 3 parsed parameters, got %d", len(res))
	}
	if res[0] != "I" || res[1] != "I" || res[2] != "I" {
		t.Errorf("expected I I I, got: %s %s %s", res[0], res[1], res[2])
	}

	res = ParseIncomingParamsFromMethTypeString("(S[BI)I")
	if len(res) != 3 {
		t.Errorf("expected 3 parsed parameters, got %d", len(res))
	}
	if res[0] != "I" || res[1] != "[B" || res[2] != "I" {
		t.Errorf("expected I [B I, got: %s %s %s", res[0], res[1], res[2])
	}

	res = ParseIncomingParamsFromMethTypeString("(Ljava/lang/String;I)V")
	if len(res) != 2 {
		t.Errorf("expected 2 parsed parameters, got %d", len(res))
	}
	if res[0] != "Ljava/lang/String;" || res[1] != "I" {
		t.Errorf("expected Ljava/lang/String; I, got: %s %s", res[0], res[1])
	}

	res = ParseIncomingParamsFromMethTypeString("")
	if len(res) != 0 {
		t.Errorf("expected empty result, got: %v", res)
	}
}

func TestConvertToPlatformPathSeparators(t *testing.T) {
	res := ConvertToPlatformPathSeparators("java/lang/Object")
	if res == "" {
		t.Error("expected non-empty result")
	}
}
