package models

// Challenge is one generated question. The engine never looks inside it
// except through the evaluator for its kind.
type Challenge struct {
	// Seq is the position of the challenge within its session, starting at 1.
	Seq      int      `json:"seq"`
	Kind     GameKind `json:"kind"`
	Level    int      `json:"level"`
	Prompt   string   `json:"prompt"`
	Stimulus []string `json:"stimulus,omitempty"`
	Options  []string `json:"options,omitempty"`
	// Used holds words already played in a word chain.
	Used        []string `json:"used,omitempty"`
	MinLength   int      `json:"min_length,omitempty"`
	DelayMillis int64    `json:"delay_millis,omitempty"`
	Metric      Metric   `json:"metric"`

	Hint   string   `json:"-"`
	Answer []string `json:"-"`
}

// Metric is the structural difficulty of a challenge. Every field depends
// on the level alone, never on the random content.
type Metric struct {
	Length    int `json:"length,omitempty"`
	Range     int `json:"range,omitempty"`
	Operators int `json:"operators,omitempty"`
	Options   int `json:"options,omitempty"`
}

// AtLeast reports whether every dimension of m is >= the same dimension of o.
func (m Metric) AtLeast(o Metric) bool {
	return m.Length >= o.Length &&
		m.Range >= o.Range &&
		m.Operators >= o.Operators &&
		m.Options >= o.Options
}

// Submission is a raw player response to the pending challenge.
type Submission struct {
	// Seq, when non-zero, must match the pending challenge; stale answers are dropped.
	Seq                int      `json:"seq"`
	Values             []string `json:"values"`
	ResponseTimeMillis int64    `json:"response_time_ms"`
	HintUsed           bool     `json:"hint_used"`
}

// AnswerEvent is the evaluated outcome of one submission.
type AnswerEvent struct {
	Correct            bool      `json:"correct"`
	ResponseTimeMillis int64     `json:"response_time_ms"`
	HintUsed           bool      `json:"hint_used"`
	Points             int       `json:"points"`
	Challenge          Challenge `json:"challenge"`
}
