package handler

import (
	"learn-assist/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Quiz         *QuizHandler
	Chat         *ChatHandler
	Image        *ImageHandler
	Voice        *VoiceHandler
	Registration *RegistrationHandler
	Health       *HealthHandler
	Page         *PageHandler
}

// RegisterRoutes mounts the JSON API under /api and the guarded page routes.
// Static assets and the catch-all are left to the caller so they mount last.
func RegisterRoutes(app *fiber.App, h Handlers, guard *middleware.Guard, vm *middleware.ValidationMiddleware) {
	api := app.Group("/api")
	api.Get("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Get("/google/login", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)
	auth.Post("/logout", guard.Protected(), h.Auth.Logout)

	users := api.Group("/users", guard.Protected())
	users.Get("/me", h.User.GetMyProfile)
	users.Patch("/me", h.User.UpdateMyProfile)

	api.Get("/quiz/levels", h.Quiz.GetLevels)
	quiz := api.Group("/quiz", guard.Protected())
	quiz.Get("/state", h.Quiz.GetState)
	quiz.Post("/level", h.Quiz.SelectLevel)
	quiz.Post("/start", h.Quiz.StartPractice)
	quiz.Post("/answer", h.Quiz.SelectAnswer)
	quiz.Post("/submit", h.Quiz.SubmitAnswer)

	api.Get("/chat/examples", h.Chat.GetExamples)
	chat := api.Group("/chat", guard.Protected())
	chat.Post("/questions", h.Chat.SubmitQuestion)
	chat.Get("/exchange", h.Chat.GetExchange)

	images := api.Group("/images", guard.Protected())
	images.Post("/", h.Image.SelectImage)
	images.Get("/", h.Image.GetSelection)
	images.Delete("/", h.Image.Reset)
	images.Post("/upload", h.Image.Upload)
	images.Get("/preview/:id", vm.ValidateULIDParam("id"), h.Image.Preview)

	api.Get("/voice/capabilities", h.Voice.GetCapabilities)
	voice := api.Group("/voice", guard.Protected())
	voice.Post("/start", h.Voice.StartRecording)
	voice.Post("/audio", h.Voice.AppendAudio)
	voice.Post("/stop", h.Voice.StopRecording)
	voice.Delete("/", h.Voice.CancelRecording)
	voice.Post("/speak", h.Voice.Speak)

	register := api.Group("/register")
	register.Post("/", h.Registration.Start)
	withID := register.Group("/:id", vm.ValidateULIDParam("id"))
	withID.Get("/", h.Registration.Get)
	withID.Post("/verification", h.Registration.Verify)
	withID.Post("/occupation", h.Registration.ChooseOccupation)
	withID.Post("/education", h.Registration.ChooseEducation)
	withID.Post("/degree", h.Registration.ChooseDegree)
	withID.Post("/feedback", h.Registration.SendFeedback)

	signedOutOnly := guard.RequireSignedOut("/dashboard")
	app.Get("/welcome", signedOutOnly, h.Page.Page)
	app.Get("/login", signedOutOnly, h.Page.Page)
	app.Get("/register", signedOutOnly, h.Page.Page)

	signedInOnly := guard.RequireSignedIn("/welcome")
	app.Get("/", signedInOnly, h.Page.Root)
	app.Get("/dashboard", signedInOnly, h.Page.Page)
}

