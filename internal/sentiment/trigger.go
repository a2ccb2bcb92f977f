package sentiment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beargallbladder/fairwaylive/internal/domain"
)

// longDriveMinYards is the distance a caller has to claim before a long-drive
// trigger fires. Weekend golfers round up; 270 filters the plausible brags.
const longDriveMinYards = 270

var distancePattern = regexp.MustCompile(`(\d{3})\s*(?:yards?|yds?)\b`)

// ExtractTriggers scans an already lower-cased transcript for betting
// opportunities. Trigger extraction is independent of sentiment scoring;
// multiple triggers may fire from one transcript.
func ExtractTriggers(lower string) []domain.Trigger {
	var triggers []domain.Trigger

	for _, m := range distancePattern.FindAllStringSubmatch(lower, -1) {
		dist, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if dist > longDriveMinYards {
			triggers = append(triggers, domain.Trigger{
				Kind:         domain.TriggerLongDrive,
				SuggestedBet: domain.BetLongDrive,
				Distance:     dist,
			})
		}
	}

	if strings.Contains(lower, "bird") {
		triggers = append(triggers, domain.Trigger{
			Kind:         domain.TriggerBirdieCall,
			SuggestedBet: domain.BetBirdieOrBetter,
		})
	}
	if strings.Contains(lower, "eagle") {
		triggers = append(triggers, domain.Trigger{
			Kind:         domain.TriggerEagleCall,
			SuggestedBet: domain.BetEagle,
		})
	}
	if strings.Contains(lower, "par") {
		triggers = append(triggers, domain.Trigger{
			Kind:         domain.TriggerParCall,
			SuggestedBet: domain.BetParOrBetter,
		})
	}

	for _, phrase := range []string{"make this", "drain", "bury"} {
		if strings.Contains(lower, phrase) {
			triggers = append(triggers, domain.Trigger{
				Kind:         domain.TriggerConfidentPutt,
				SuggestedBet: domain.BetMakePutt,
			})
			break
		}
	}

	return triggers
}
