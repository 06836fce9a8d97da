package services

import (
	"github.com/sirupsen/logrus"

	"github.com/voxstream/voxstream-backend/internal/config"
	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/repository"
	"github.com/voxstream/voxstream-backend/internal/transcript"
)

// Services bundles the application services handed to the API layer.
type Services struct {
	Live    *LiveTranscript
	Persist *persist.Manager
	Summary *SummaryService
	Display *persist.DisplayState
	Logger  *logrus.Logger
}

// NewServices wires the live transcript host, the persistence manager and
// the optional summarizer together. sessions/meta may be nil when the
// durable store failed to open; the persistence manager then degrades on
// Init.
func NewServices(
	cfg *config.Config,
	sessions repository.SessionRepository,
	meta repository.MetaRepository,
	logger *logrus.Logger,
) *Services {
	display := persist.NewDisplayState()
	live := NewLiveTranscript(transcript.NewPrefixFilter())

	manager := persist.New(persist.Options{
		Sessions: sessions,
		Meta:     meta,
		Host:     live.Host(),
		Sinks: persist.Sinks{
			Banner:  display.SetBanner,
			Display: display.Apply,
		},
		Logger: logger,
	})

	live.SetOnChange(manager.ScheduleAutosave)

	return &Services{
		Live:    live,
		Persist: manager,
		Summary: NewSummaryService(cfg.OpenAI, sessions),
		Display: display,
		Logger:  logger,
	}
}
