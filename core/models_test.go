package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("wing spar torque values")
		id2 := IDFromContent("wing spar torque values")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("wing spar torque values")
		id2 := IDFromContent("fastener corrosion limits")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content produces stable ID", func(t *testing.T) {
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestParseDocumentStatus(t *testing.T) {
	tests := []struct {
		input string
		want  DocumentStatus
	}{
		{"active", StatusActive},
		{"ACTIVE", StatusActive},
		{"deprecated", StatusDeprecated},
		{"obsolete", StatusObsolete},
		{"Obsolete", StatusObsolete},
		{"устаревший", StatusObsolete},
		{"archived", StatusArchived},
		{"", StatusActive},
		{"something else", StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDocumentStatus(tt.input))
		})
	}
}

func TestDocumentStatusIsObsolete(t *testing.T) {
	assert.False(t, StatusActive.IsObsolete())
	assert.True(t, StatusDeprecated.IsObsolete())
	assert.True(t, StatusObsolete.IsObsolete())
	assert.False(t, StatusArchived.IsObsolete())
}

func TestParseRelationKind(t *testing.T) {
	assert.Equal(t, RelationContradicts, ParseRelationKind("CONTRADICTS"))
	assert.Equal(t, RelationContradicts, ParseRelationKind("contradicts"))
	assert.Equal(t, RelationMentions, ParseRelationKind("MENTIONS"))
	assert.Equal(t, RelationHasSection, ParseRelationKind("HAS_SECTION"))
	assert.Equal(t, RelationRelatedTo, ParseRelationKind("RELATED_TO"))

	// free-form legacy labels fall back to RELATES_TO
	assert.Equal(t, RelationRelatesTo, ParseRelationKind("ссылается на"))
	assert.Equal(t, RelationRelatesTo, ParseRelationKind(""))
}

func TestRelationKindString(t *testing.T) {
	assert.Equal(t, "CONTRADICTS", RelationContradicts.String())
	assert.Equal(t, "RELATES_TO", RelationKind(0).String())
}

func TestConflictRecordPairKey(t *testing.T) {
	a := ConflictRecord{Doc1ID: "SPEC-001", Doc2ID: "STD-045"}
	b := ConflictRecord{Doc1ID: "STD-045", Doc2ID: "SPEC-001"}
	assert.Equal(t, a.PairKey(), b.PairKey())

	c := ConflictRecord{Doc1ID: "SPEC-001", Doc2ID: "STD-046"}
	assert.NotEqual(t, a.PairKey(), c.PairKey())
}
