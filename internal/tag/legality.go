// Package tag decides whether a tag attempt is legal right now. The judge
// reads zone and time-window configuration plus the revenge registry; it
// mutates nothing. Committing an allowed tag (rotating IT, creating the
// next revenge window, ending showdowns) is the caller's job.
package tag

import (
	"time"

	"github.com/manhuntgg/manhunt-server/internal/geo"
	"github.com/manhuntgg/manhunt-server/internal/zone"
)

// Denial reasons, surfaced to the client verbatim.
const (
	ReasonRevengeCooldown  = "revenge cooldown"
	ReasonNoTagWindow      = "no-tag time period active"
	ReasonTaggerInSafeZone = "tagger in safe zone"
	ReasonTargetInSafeZone = "target in safe zone"
)

// Decision is the outcome of a legality check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allowed() Decision              { return Decision{Allowed: true} }
func denied(reason string) Decision { return Decision{Reason: reason} }

// Request is one tag attempt. Positions are optional: a missing position
// skips the corresponding safe-zone check rather than blocking the tag.
type Request struct {
	TaggerID  string
	TargetID  string
	TaggerPos *geo.LatLng
	TargetPos *geo.LatLng
	Now       time.Time
}

// Judge evaluates tag legality against a game's rule configuration.
type Judge struct {
	Zones        zone.Set
	NoTagWindows []zone.TimeWindow
	Revenge      *RevengeRegistry
}

// NewJudge creates a judge over the given configuration. A nil registry is
// replaced with an empty one so a judge with no revenge state still works.
func NewJudge(zones zone.Set, windows []zone.TimeWindow, revenge *RevengeRegistry) *Judge {
	if revenge == nil {
		revenge = NewRevengeRegistry()
	}
	return &Judge{Zones: zones, NoTagWindows: windows, Revenge: revenge}
}

// CanTag evaluates the checks in fixed precedence; the first failing check
// wins. Empty configuration (no zones, no windows) denies nothing.
func (j *Judge) CanTag(req Request) Decision {
	if j.Revenge.Blocks(req.TaggerID, req.TargetID, req.Now) {
		return denied(ReasonRevengeCooldown)
	}
	if zone.InAnyWindow(req.Now, j.NoTagWindows) {
		return denied(ReasonNoTagWindow)
	}
	if req.TaggerPos != nil && j.Zones.Contains(*req.TaggerPos) {
		return denied(ReasonTaggerInSafeZone)
	}
	if req.TargetPos != nil && j.Zones.Contains(*req.TargetPos) {
		return denied(ReasonTargetInSafeZone)
	}
	return allowed()
}
