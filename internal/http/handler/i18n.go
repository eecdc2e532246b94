package handler

import (
	"github.com/gofiber/fiber/v2"

	"docflow/internal/i18n"
)

// ListLocales returns the supported locale codes and the default.
func ListLocales(translator *i18n.Translator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"locales": translator.Locales(),
			"default": i18n.DefaultLocale,
		})
	}
}

// LocaleTable returns the whole flat key-to-string table for one locale, so
// clients can render strings themselves.
func LocaleTable(translator *i18n.Translator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locale := c.Params("locale")
		table, ok := translator.Table(locale)
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "unsupported locale")
		}
		return c.JSON(table)
	}
}
