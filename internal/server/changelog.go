package server

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/davido-builds/openicons-site/internal/changelog"
	siteerrors "github.com/davido-builds/openicons-site/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// CacheControl lets shared caches serve the changelog for an hour and
// revalidate in the background for a day.
const CacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"

func setChangelogHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
}

// ChangelogHandler serves the full changelog document.
func ChangelogHandler(docs changelog.Fetcher, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setChangelogHeaders(c)

		doc, err := docs.Fetch(c.UserContext())
		if err != nil {
			return writeError(c, err, opts.Production)
		}

		c.Set(fiber.HeaderCacheControl, CacheControl)
		return c.JSON(doc)
	}
}

// ChangelogVersionHandler serves a single entry. "v1.2.0" and "1.2.0" match
// the same entry.
func ChangelogVersionHandler(docs changelog.Fetcher, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		setChangelogHeaders(c)

		doc, err := docs.Fetch(c.UserContext())
		if err != nil {
			return writeError(c, err, opts.Production)
		}

		entry, err := doc.GetVersion(c.Params("version"))
		if err != nil {
			return writeError(c, err, opts.Production)
		}

		c.Set(fiber.HeaderCacheControl, CacheControl)
		return c.JSON(entry)
	}
}

// ChangelogPageHandler renders the changelog page. Retrieval failures render
// the error state with the failure's status code.
func ChangelogPageHandler(docs changelog.Fetcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body templ.Component
		status := fiber.StatusOK

		doc, err := docs.Fetch(c.UserContext())
		if err != nil {
			status = siteerrors.StatusOf(err)
			message := internalErrorMessage
			if e := siteerrors.As(err); e != nil {
				message = e.Message
			}
			body = changelog.ErrorView(message)
		} else {
			body = changelog.EntriesView(doc.Entries)
		}

		handler := adaptor.HTTPHandler(templ.Handler(page("Changelog", body), templ.WithStatus(status)))
		return handler(c)
	}
}

// page wraps a fragment in a minimal HTML document.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+templ.EscapeString(title)+`</title></head><body><main class="mx-auto max-w-3xl px-4 py-12"><h1 class="mb-8 text-3xl font-medium">`+templ.EscapeString(title)+`</h1>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
