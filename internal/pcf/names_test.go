package pcf

import (
	"fmt"
	"regexp"
	"testing"
)

func TestResolveParameterName_KnownIDs(t *testing.T) {
	tests := []struct {
		id   uint32
		want string
	}{
		{2016, "MQCA_Q_NAME"},
		{2002, "MQCA_Q_MGR_NAME"},
		{2024, "MQCA_APPL_NAME"},
		{3501, "MQCA_CHANNEL_NAME"},
		{3506, "MQCACH_CONNECTION_NAME"},
		{3, "MQIA_CURRENT_Q_DEPTH"},
		{36, "MQIA_HIGH_Q_DEPTH"},
		{51, "MQIA_PUT_COUNT"},
		{52, "MQIA_GET_COUNT"},
		{65, "MQIA_OPEN_INPUT_COUNT"},
		{66, "MQIA_OPEN_OUTPUT_COUNT"},
		{1501, "MQIACH_CHANNEL_TYPE"},
		{1502, "MQIACH_TRANSPORT_TYPE"},
		{1527, "MQIACH_CHANNEL_STATUS"},
		// Extended hex-aligned ids.
		{167772161, "MQCA_APPL_NAME"},
		{301989889, "MQIA_COMMAND_LEVEL"},
		{536870912, "MQIA_PUT_TIME"},
		{671088640, "MQIA_PUT_BYTES"},
		{671088641, "MQIA_GET_BYTES"},
		{842019381, "MQIA_ACCOUNTING_CONN_OVERRIDE"},
		{842019392, "MQIA_STATISTICS_Q"},
		{939524096, "MQIA_BROWSE_COUNT"},
		{1610612737, "MQIA_MAX_Q_DEPTH"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ResolveParameterName(tt.id); got != tt.want {
				t.Errorf("ResolveParameterName(%d) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestResolveParameterName_UnknownFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^UNKNOWN_PARAM_\d+_0x[0-9A-F]{8}$`)

	for _, id := range []uint32{99999, 999999999, 4294967295} {
		name := ResolveParameterName(id)
		if !pattern.MatchString(name) {
			t.Errorf("ResolveParameterName(%d) = %q, does not match placeholder pattern", id, name)
		}
		wantHex := fmt.Sprintf("0x%08X", id)
		if name[len(name)-10:] != wantHex {
			t.Errorf("ResolveParameterName(%d) = %q, expected suffix %s", id, name, wantHex)
		}
		if !IsUnknownName(name) {
			t.Errorf("IsUnknownName(%q) = false, want true", name)
		}
	}
}

func TestIsUnknownName_Canonical(t *testing.T) {
	if IsUnknownName("MQCA_Q_NAME") {
		t.Error("canonical name reported as unknown")
	}
}

func TestChannelTypeName(t *testing.T) {
	if got := ChannelTypeName(6); got != "SERVER_CONNECTION" {
		t.Errorf("expected SERVER_CONNECTION, got %s", got)
	}
	if got := ChannelTypeName(42); got != "UNKNOWN_CHANNEL_TYPE_42" {
		t.Errorf("expected fallback name, got %s", got)
	}
}

func TestTransportTypeName(t *testing.T) {
	if got := TransportTypeName(2); got != "TCP" {
		t.Errorf("expected TCP, got %s", got)
	}
	if got := TransportTypeName(99); got != "UNKNOWN_TRANSPORT_99" {
		t.Errorf("expected fallback name, got %s", got)
	}
}

func TestChannelStatusName(t *testing.T) {
	if got := ChannelStatusName(3); got != "RUNNING" {
		t.Errorf("expected RUNNING, got %s", got)
	}
	if got := ChannelStatusName(13); got != "INITIALIZING" {
		t.Errorf("expected INITIALIZING, got %s", got)
	}
	if got := ChannelStatusName(77); got != "UNKNOWN_STATUS_77" {
		t.Errorf("expected fallback name, got %s", got)
	}
}
