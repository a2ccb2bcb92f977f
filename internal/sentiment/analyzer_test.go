package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

var now = time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)

func TestAnalyze_TwoConfidenceWords(t *testing.T) {
	result := Analyze("p1", "I crushed that drive, pure money", now)
	assert.InDelta(t, 0.4, result.Sample.Value, 1e-9)
	assert.Equal(t, "p1", result.Sample.PlayerID)
	assert.Equal(t, now, result.Sample.Timestamp)
}

func TestAnalyze_StruggleWords(t *testing.T) {
	result := Analyze("p1", "total shank into the chunk zone, brutal", now)
	assert.InDelta(t, -0.9, result.Sample.Value, 1e-9)
}

func TestAnalyze_MixedSignals(t *testing.T) {
	// one confidence (+0.2) and one struggle (-0.3)
	result := Analyze("p1", "nailed the recovery after that shank", now)
	assert.InDelta(t, -0.1, result.Sample.Value, 1e-9)
}

func TestAnalyze_ClampsToBounds(t *testing.T) {
	pumped := "crushed nailed money pured flushed dialed striped smoked"
	result := Analyze("p1", pumped, now)
	assert.InDelta(t, 1.0, result.Sample.Value, 1e-9)

	gloomy := "shank chunk duff yip ugly brutal terrible awful"
	result = Analyze("p1", gloomy, now)
	assert.InDelta(t, -1.0, result.Sample.Value, 1e-9)
}

func TestAnalyze_RepeatedWordCountsOnce(t *testing.T) {
	result := Analyze("p1", "money money money", now)
	assert.InDelta(t, 0.2, result.Sample.Value, 1e-9)
}

func TestAnalyze_CaseInsensitive(t *testing.T) {
	result := Analyze("p1", "CRUSHED it", now)
	assert.InDelta(t, 0.2, result.Sample.Value, 1e-9)
}

func TestAnalyze_NoKeywords(t *testing.T) {
	result := Analyze("p1", "walking to the next tee", now)
	assert.Zero(t, result.Sample.Value)
	assert.Empty(t, result.Triggers)
}

func TestExtractTriggers_LongDrive(t *testing.T) {
	triggers := ExtractTriggers("that one went 310 yards easy")
	if assert.Len(t, triggers, 1) {
		assert.Equal(t, domain.TriggerLongDrive, triggers[0].Kind)
		assert.Equal(t, domain.BetLongDrive, triggers[0].SuggestedBet)
		assert.Equal(t, 310, triggers[0].Distance)
	}
}

func TestExtractTriggers_LongDriveBelowThreshold(t *testing.T) {
	assert.Empty(t, ExtractTriggers("scraped out 250 yards"))
	assert.Empty(t, ExtractTriggers("exactly 270 yds"))
}

func TestExtractTriggers_YardTokenVariants(t *testing.T) {
	assert.Len(t, ExtractTriggers("carried 295 yds"), 1)
	assert.Len(t, ExtractTriggers("flew 301yards"), 1)
	assert.Empty(t, ExtractTriggers("295 yardstick"), "yardstick is not a distance claim")
}

func TestExtractTriggers_ScoringCalls(t *testing.T) {
	triggers := ExtractTriggers("birdie look here")
	if assert.Len(t, triggers, 1) {
		assert.Equal(t, domain.TriggerBirdieCall, triggers[0].Kind)
	}

	triggers = ExtractTriggers("could be an eagle putt")
	if assert.Len(t, triggers, 1) {
		assert.Equal(t, domain.TriggerEagleCall, triggers[0].Kind)
	}

	triggers = ExtractTriggers("safe par coming")
	if assert.Len(t, triggers, 1) {
		assert.Equal(t, domain.TriggerParCall, triggers[0].Kind)
	}
}

func TestExtractTriggers_ConfidentPutt(t *testing.T) {
	for _, phrase := range []string{"gonna make this", "watch me drain it", "about to bury it"} {
		triggers := ExtractTriggers(phrase)
		if assert.Len(t, triggers, 1, phrase) {
			assert.Equal(t, domain.TriggerConfidentPutt, triggers[0].Kind)
			assert.Equal(t, domain.BetMakePutt, triggers[0].SuggestedBet)
		}
	}
}

func TestExtractTriggers_MultipleFromOneTranscript(t *testing.T) {
	triggers := ExtractTriggers("bombed it 320 yards, birdie time, gonna drain this")
	kinds := make([]domain.TriggerKind, 0, len(triggers))
	for _, tr := range triggers {
		kinds = append(kinds, tr.Kind)
	}
	assert.Contains(t, kinds, domain.TriggerLongDrive)
	assert.Contains(t, kinds, domain.TriggerBirdieCall)
	assert.Contains(t, kinds, domain.TriggerConfidentPutt)
}
