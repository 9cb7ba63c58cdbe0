package estates

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

func (h *Handler) ListEstatesAPI(c *fiber.Ctx) error {
	all, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"estates": Filter(all, c.Query("q"), c.QueryBool("available")),
	})
}

func (h *Handler) CreateEstateAPI(c *fiber.Ctx) error {
	var form EstateForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Create(c.UserContext(), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Bien ajouté.", func(state views.FormState) error {
		return h.renderForm(c, form, state, 0)
	})
}

func (h *Handler) UpdateEstateAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	var form EstateForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Requête invalide")
	}
	state, err := h.svc.Update(c.UserContext(), int64(id), form)
	if err != nil {
		return err
	}
	return views.RespondForm(c, state, "Bien modifié.", func(state views.FormState) error {
		return h.renderForm(c, form, state, int64(id))
	})
}

func (h *Handler) DeleteEstateAPI(c *fiber.Ctx) error {
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
	views.SetFlash(c, "success", "Bien supprimé.")
	return c.Redirect(estatesPath, fiber.StatusSeeOther)
}

var folderRules = map[backend.Folder]validation.FileRules{
	backend.FolderEstateImages:    validation.ImageRules,
	backend.FolderEstateDocuments: validation.DocumentRules,
}

// UploadAPI handles the drop zone of an estate page for one storage folder.
func (h *Handler) UploadAPI(folder backend.Folder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.ErrNotFound
		}
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide")
		}
		files := form.File["files"]

		errs := validation.FieldErrors{}
		if len(files) == 0 {
			errs.Add("files", "Sélectionnez au moins un fichier.")
		}
		folderRules[folder].Check("files", files, errs)
		if errs.Any() {
			if views.WantsJSON(c) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(views.FormState{Message: errs.First("files"), Errors: errs})
			}
			views.SetFlash(c, "error", errs.First("files"))
			return c.Redirect(estatePath(int64(id)), fiber.StatusSeeOther)
		}

		urls, err := h.svc.Upload(c.UserContext(), int64(id), folder, backend.FromFileHeaders(files))
		if err != nil {
			return err
		}
		if views.WantsJSON(c) {
			return c.JSON(fiber.Map{"success": true, "urls": urls})
		}
		views.SetFlash(c, "success", strconv.Itoa(len(urls))+" fichier(s) ajouté(s).")
		return c.Redirect(estatePath(int64(id)), fiber.StatusSeeOther)
	}
}

func (h *Handler) DeleteFileAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}
	folder := backend.Folder(c.FormValue("folder"))
	if _, ok := folderRules[folder]; !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Dossier inconnu")
	}
	if err := h.svc.DeleteFile(c.UserContext(), int64(id), folder, c.FormValue("url")); err != nil {
		return err
	}
	views.SetFlash(c, "success", "Fichier supprimé.")
	return c.Redirect(estatePath(int64(id)), fiber.StatusSeeOther)
}
