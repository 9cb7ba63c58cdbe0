package users

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

func (h *Handler) ListUsersAPI(c *fiber.Ctx) error {
	users, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "users": users})
}

func (h *Handler) CreateUserAPI(c *fiber.Ctx) error {
	var form UserForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}

	state, err := h.svc.Create(c.UserContext(), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Utilisateur ajouté.", func(state views.FormState) error {
		return h.renderForm(c, form, state, 0)
	})
}

func (h *Handler) UpdateUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	var form UserForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}

	state, err := h.svc.Update(c.UserContext(), int64(id), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Utilisateur modifié.", func(state views.FormState) error {
		return h.renderForm(c, form, state, int64(id))
	})
}

func (h *Handler) DeleteUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.svc.Delete(c.UserContext(), int64(id)); err != nil {
		return err
	}
	if views.WantsJSON(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	views.SetFlash(c, "success", "Utilisateur supprimé.")
	return c.Redirect(usersPath, fiber.StatusSeeOther)
}

func (h *Handler) RegisterAPI(c *fiber.Ctx) error {
	var form UserForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}

	state, err := h.svc.Register(c.UserContext(), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Compte créé, vous pouvez vous connecter.", func(state views.FormState) error {
		return views.RenderBare(c, "auth/register", "Créer un compte", fiber.Map{"Form": form, "State": state})
	})
}

func (h *Handler) UploadDocumentsAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
	}
	files := form.File["documents"]

	errs := validation.FieldErrors{}
	if len(files) == 0 {
		errs.Add("documents", "Sélectionnez au moins un fichier.")
	}
	validation.DocumentRules.Check("documents", files, errs)
	if errs.Any() {
		views.SetFlash(c, "error", errs.First("documents"))
		return c.Redirect(userPath(int64(id)), fiber.StatusSeeOther)
	}

	urls, err := h.api.UploadFiles(c.UserContext(), backend.FolderUserDocuments, int64(id), backend.FromFileHeaders(files))
	if err != nil {
		return err
	}
	h.log.Info("user documents uploaded", zap.Int("user_id", id), zap.Int("count", len(urls)))
	h.svc.revalidate(c.UserContext(), usersPath)

	views.SetFlash(c, "success", strconv.Itoa(len(urls))+" document(s) ajouté(s).")
	return c.Redirect(userPath(int64(id)), fiber.StatusSeeOther)
}

func (h *Handler) DeleteDocumentAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.api.DeleteFile(c.UserContext(), backend.FolderUserDocuments, int64(id), c.FormValue("url")); err != nil {
		return err
	}
	views.SetFlash(c, "success", "Document supprimé.")
	return c.Redirect(userPath(int64(id)), fiber.StatusSeeOther)
}

func fmtInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
