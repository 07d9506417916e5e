package trigger

import "testing"

func TestConnectionTypeReachable(t *testing.T) {
	tests := []struct {
		typ  ConnectionType
		want bool
	}{
		{ConnectionNone, false},
		{"NONE", false},
		{" None ", false},
		{ConnectionWifi, true},
		{ConnectionCellular, true},
		{ConnectionUnknown, true},
		{"", true},
	}
	for _, tt := range tests {
		if got := tt.typ.Reachable(); got != tt.want {
			t.Errorf("ConnectionType(%q).Reachable() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestLifecycleStateString(t *testing.T) {
	if Active.String() != "active" || Inactive.String() != "inactive" || Background.String() != "background" {
		t.Fatalf("unexpected state names: %s %s %s", Active, Inactive, Background)
	}
	if LifecycleState(42).String() != "unknown" {
		t.Fatalf("LifecycleState(42) = %q, want unknown", LifecycleState(42))
	}
}
