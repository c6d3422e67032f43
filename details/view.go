package details

import (
	"github.com/apex/log"

	"reel/catalog"
)

type Mode int

const (
	Synopsis Mode = iota
	Player
)

// View is the state of an open details modal. It is discarded on close.
type View struct {
	Details  *catalog.Details
	Mode     Mode
	Selector *Selector
	Embed    Embed
	Rating   *catalog.IMDbRating

	embedBase string
}

func NewView(d *catalog.Details, embedBase string) *View {
	return &View{
		Details:   d,
		Selector:  NewSelector(d),
		embedBase: embedBase,
	}
}

func (v *View) IsSeries() bool {
	return KindOf(v.Details) == catalog.KindSeries
}

// Play switches into the embedded player for the current selection.
func (v *View) Play() Embed {
	v.Mode = Player
	v.rebuild()
	return v.Embed
}

// Back returns from the player to the synopsis.
func (v *View) Back() {
	v.Mode = Synopsis
}

func (v *View) SelectSeason(season int) {
	if v.Selector.SelectSeason(season) {
		v.rebuild()
	}
}

func (v *View) SelectEpisode(episode int) {
	if v.Selector.SelectEpisode(episode) {
		v.rebuild()
	}
}

func (v *View) StepSeason(delta int)  { v.SelectSeason(v.Selector.Season + delta) }
func (v *View) StepEpisode(delta int) { v.SelectEpisode(v.Selector.Episode + delta) }

func (v *View) rebuild() {
	if v.Mode != Player {
		return
	}
	v.Embed = BuildEmbed(v.embedBase, v.Details, v.Selector.Season, v.Selector.Episode)
	if v.Embed.Warning != nil {
		log.WithField("id", v.Details.ID).WithError(v.Embed.Warning).Warn("series embed uses catalog id")
	}
}
