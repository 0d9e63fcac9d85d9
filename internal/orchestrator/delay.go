package orchestrator

import (
	"fmt"
	"strings"

	perrors "github.com/p-blackswan/spatialflow/internal/errors"
)

// DelayType is the disruption category sent with a replan request.
type DelayType string

const (
	DelayMaterial  DelayType = "material"
	DelayWeather   DelayType = "weather"
	DelayLabor     DelayType = "labor"
	DelayEquipment DelayType = "equipment"
	DelayDesign    DelayType = "design"
	DelayOther     DelayType = "other"
)

// DelayTypes lists the selectable categories in display order.
var DelayTypes = []DelayType{DelayMaterial, DelayWeather, DelayLabor, DelayEquipment, DelayDesign, DelayOther}

// ParseDelayType validates a category name, case-insensitively.
func ParseDelayType(s string) (DelayType, error) {
	d := DelayType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DelayTypes {
		if d == known {
			return d, nil
		}
	}
	return "", &perrors.ValidationError{Field: "delayType", Message: fmt.Sprintf("unknown delay type %q", s)}
}
