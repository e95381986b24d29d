// Package lexicon maps the numeric status codes returned by the NLPearl
// API to operator-facing labels. The upstream API reports calls and
// conversations with opaque integer codes; labels here follow the
// Italian dashboard wording.
package lexicon

// Tone groups codes into badge color families for presentation.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneFailure Tone = "failure"
	ToneActive  Tone = "active"
	ToneWaiting Tone = "waiting"
	TonePending Tone = "pending"
	ToneNeutral Tone = "neutral"
)

const unknownLabel = "Sconosciuto"

// CallStatus is the upstream status code of a call record.
type CallStatus int

var callStatusLabels = map[CallStatus]string{
	1:   "Nuovo",
	3:   "In corso",
	4:   "Completata",
	5:   "Occupato",
	6:   "Fallita",
	7:   "Nessuna risposta",
	8:   "Annullata",
	10:  "Da riprovare",
	20:  "In coda chiamate",
	30:  "Prefisso errato",
	40:  "In chiamata",
	70:  "Segreteria",
	100: "Riuscita",
	110: "Non riuscita",
	130: "Completata",
	150: "Irreperibile",
	220: "Blacklist",
	300: "Abbandono coda",
}

// Label returns the display label for the status, falling back to the
// unknown label for codes the upstream has not documented.
func (s CallStatus) Label() string {
	if l, ok := callStatusLabels[s]; ok {
		return l
	}
	return unknownLabel
}

// Known reports whether the code is part of the documented set.
func (s CallStatus) Known() bool {
	_, ok := callStatusLabels[s]
	return ok
}

// Tone returns the badge color family for the status.
func (s CallStatus) Tone() Tone {
	switch s {
	case 4, 100, 130:
		return ToneSuccess
	case 6, 110, 500:
		return ToneFailure
	case 3, 40:
		return ToneActive
	case 5, 7, 8, 70:
		return ToneWaiting
	case 1, 10, 20:
		return TonePending
	default:
		return ToneNeutral
	}
}

// ConversationStatus is the upstream status code of the conversation
// attached to a call. It overlaps with CallStatus but is a distinct
// code family with its own error code.
type ConversationStatus int

var conversationStatusLabels = map[ConversationStatus]string{
	1:   "Nuovo",
	10:  "Da riprovare",
	20:  "In coda",
	30:  "Prefisso errato",
	40:  "In chiamata",
	70:  "Segreteria",
	100: "Riuscita",
	110: "Non riuscita",
	130: "Completata",
	150: "Irreperibile",
	220: "Blacklist",
	300: "Abbandono coda",
	500: "Errore",
}

// Label returns the display label for the conversation status.
func (s ConversationStatus) Label() string {
	if l, ok := conversationStatusLabels[s]; ok {
		return l
	}
	return unknownLabel
}

// Known reports whether the code is part of the documented set.
func (s ConversationStatus) Known() bool {
	_, ok := conversationStatusLabels[s]
	return ok
}

// Sentiment is the overall sentiment score of a call, 1 (negative)
// through 5 (positive).
type Sentiment int

// SentimentNeutral is the fallback when a call carries no sentiment.
const SentimentNeutral Sentiment = 3

var sentimentLabels = map[Sentiment]string{
	1: "Negativo",
	2: "Leggermente negativo",
	3: "Neutro",
	4: "Leggermente positivo",
	5: "Positivo",
}

var sentimentTones = map[Sentiment]Tone{
	1: ToneFailure,
	2: ToneWaiting,
	3: ToneNeutral,
	4: ToneActive,
	5: ToneSuccess,
}

// Label returns the display label for the sentiment.
func (s Sentiment) Label() string {
	if l, ok := sentimentLabels[s]; ok {
		return l
	}
	return unknownLabel
}

// Known reports whether the code is part of the documented set.
func (s Sentiment) Known() bool {
	_, ok := sentimentLabels[s]
	return ok
}

// Tone returns the color family for the sentiment, neutral for
// unrecognized codes.
func (s Sentiment) Tone() Tone {
	if t, ok := sentimentTones[s]; ok {
		return t
	}
	return ToneNeutral
}
