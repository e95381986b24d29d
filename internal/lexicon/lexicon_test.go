package lexicon

import "testing"

func TestCallStatusLabel(t *testing.T) {
	tests := []struct {
		code CallStatus
		want string
	}{
		{1, "Nuovo"},
		{100, "Riuscita"},
		{130, "Completata"},
		{300, "Abbandono coda"},
		{999, "Sconosciuto"},
		{-1, "Sconosciuto"},
	}

	for _, tt := range tests {
		if got := tt.code.Label(); got != tt.want {
			t.Errorf("CallStatus(%d).Label() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCallStatusTone(t *testing.T) {
	tests := []struct {
		code CallStatus
		want Tone
	}{
		{100, ToneSuccess},
		{130, ToneSuccess},
		{4, ToneSuccess},
		{110, ToneFailure},
		{40, ToneActive},
		{70, ToneWaiting},
		{20, TonePending},
		{999, ToneNeutral},
	}

	for _, tt := range tests {
		if got := tt.code.Tone(); got != tt.want {
			t.Errorf("CallStatus(%d).Tone() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestConversationStatusLabel(t *testing.T) {
	if got := ConversationStatus(500).Label(); got != "Errore" {
		t.Errorf("ConversationStatus(500).Label() = %q, want %q", got, "Errore")
	}
	if got := ConversationStatus(12345).Label(); got != "Sconosciuto" {
		t.Errorf("ConversationStatus(12345).Label() = %q, want %q", got, "Sconosciuto")
	}
	if ConversationStatus(12345).Known() {
		t.Error("ConversationStatus(12345).Known() = true, want false")
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		code      Sentiment
		wantLabel string
		wantTone  Tone
	}{
		{1, "Negativo", ToneFailure},
		{3, "Neutro", ToneNeutral},
		{5, "Positivo", ToneSuccess},
		{0, "Sconosciuto", ToneNeutral},
		{6, "Sconosciuto", ToneNeutral},
	}

	for _, tt := range tests {
		if got := tt.code.Label(); got != tt.wantLabel {
			t.Errorf("Sentiment(%d).Label() = %q, want %q", tt.code, got, tt.wantLabel)
		}
		if got := tt.code.Tone(); got != tt.wantTone {
			t.Errorf("Sentiment(%d).Tone() = %q, want %q", tt.code, got, tt.wantTone)
		}
	}
}
