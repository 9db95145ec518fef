package api

import (
	"git.solsynth.dev/hypernet/conference/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Meetings   *services.Meetings
	Reconciler *services.Reconciler
	Syncer     *services.Syncer
	Notes      *services.Notekeeper
}

var srv Deps

func MapAPIs(app *fiber.App, baseURL string, deps Deps) {
	srv = deps

	api := app.Group(baseURL).Name("API")
	{
		meetings := api.Group("/meetings").Name("Meetings API")
		{
			meetings.Get("/overview", getOverview)
			meetings.Post("/", startMeeting)
			meetings.Delete("/:callId", endMeeting)
			meetings.Post("/:callId/token", exchangeCallToken)
		}

		recordings := api.Group("/recordings").Name("Recordings API")
		{
			recordings.Get("/", listRecordings)
			recordings.Post("/sync", syncRecordings)
			recordings.Delete("/:recordingId", deleteRecording)
			recordings.Post("/:recordingId/share", shareRecording)
			recordings.Get("/shared/:token", resolveSharedRecording)
		}

		notes := api.Group("/notes").Name("Notes API")
		{
			notes.Post("/recordings/:recordingId/transcribe", transcribeRecording)
			notes.Post("/recordings/:recordingId", composeNote)
			notes.Get("/", listNotes)
			notes.Delete("/:noteId", deleteNote)
		}
	}
}
