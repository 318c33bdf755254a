package server

import (
	"github.com/davido-builds/openicons-site/internal/contact"
	"github.com/gofiber/fiber/v2"
)

// honeypotField is the hidden form field only bots fill in.
const honeypotField = "website"

// ContactHandler accepts a contact form post (urlencoded or multipart).
func ContactHandler(submitter Submitter, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sub := contact.Submission{
			Name:     c.FormValue("name"),
			Email:    c.FormValue("email"),
			Subject:  c.FormValue("subject"),
			Message:  c.FormValue("message"),
			Honeypot: c.FormValue(honeypotField),
		}
		key := contact.ClientKey(c.Get(fiber.HeaderXForwardedFor), c.Get("X-Real-IP"))

		if _, err := submitter.Submit(c.UserContext(), key, sub); err != nil {
			return writeError(c, err, opts.Production)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}
