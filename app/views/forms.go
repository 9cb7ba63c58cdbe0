package views

import (
	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/validation"
)

// FormState is the outcome of a form action: either a redirect target or a
// message with per-field errors to display next to the inputs.
type FormState struct {
	Message  string                 `json:"message"`
	Errors   validation.FieldErrors `json:"errors"`
	Redirect string                 `json:"redirect,omitempty"`
}

func (s FormState) OK() bool {
	return s.Redirect != ""
}

// RespondForm finishes a form action: on success it sets the flash toast and
// redirects, otherwise it re-renders the form page with the state.
func RespondForm(c *fiber.Ctx, state FormState, success string, render func(FormState) error) error {
	if state.OK() {
		if WantsJSON(c) {
			return c.JSON(state)
		}
		if success != "" {
			SetFlash(c, "success", success)
		}
		return c.Redirect(state.Redirect, fiber.StatusSeeOther)
	}

	c.Status(fiber.StatusUnprocessableEntity)
	if WantsJSON(c) {
		return c.JSON(state)
	}
	return render(state)
}
