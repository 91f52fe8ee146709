package support

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("NETFENCE_TEST_VALUE", "set")
	if got := GetEnv("NETFENCE_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("GetEnv returned %s, want set", got)
	}

	if got := GetEnv("NETFENCE_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("GetEnv for unset key returned %s, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("NETFENCE_TEST_INT", "42")
	if got := GetEnvInt("NETFENCE_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt returned %d, want 42", got)
	}

	t.Setenv("NETFENCE_TEST_BAD_INT", "not-a-number")
	if got := GetEnvInt("NETFENCE_TEST_BAD_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt with invalid value returned %d, want 7", got)
	}
}
