package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/rrlprofile/internal/adapters/geodesic"
	natsadapter "github.com/samirrijal/rrlprofile/internal/adapters/nats"
	"github.com/samirrijal/rrlprofile/internal/adapters/xlsx"
	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

func parseProfileRequest(c *fiber.Ctx, deps *Dependencies) (domain.ProfileRequest, error) {
	var body domain.ProfileInput
	if err := c.BodyParser(&body); err != nil {
		return domain.ProfileRequest{}, domain.ValidationError("invalid JSON body: %v", err)
	}
	return body.Resolve(deps.Profiles.Defaults())
}

// ComputeProfileHandler computes the path profile for one hop.
// POST /v1/profiles
func ComputeProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseProfileRequest(c, deps)
		if err != nil {
			return writeError(c, err)
		}

		result, err := deps.Profiles.Compute(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(result)
	}
}

// ExportProfileHandler computes a profile and returns it as a download.
// POST /v1/profiles/export?format=xlsx|geojson
func ExportProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format := c.Query("format", "xlsx")
		if format != "xlsx" && format != "geojson" {
			return errBadRequest(c, fmt.Sprintf("unsupported format %q, use xlsx or geojson", format))
		}

		req, err := parseProfileRequest(c, deps)
		if err != nil {
			return writeError(c, err)
		}

		result, err := deps.Profiles.Compute(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}

		name := "profile-" + time.Now().UTC().Format("20060102-150405")
		switch format {
		case "geojson":
			data, err := geodesic.FeatureCollection(result).MarshalJSON()
			if err != nil {
				return errInternal(c, "failed to encode GeoJSON")
			}
			c.Attachment(name + ".geojson")
			c.Set(fiber.HeaderContentType, "application/geo+json")
			return c.Send(data)
		default:
			var buf bytes.Buffer
			if err := xlsx.WriteProfile(&buf, result); err != nil {
				return errInternal(c, "failed to build workbook")
			}
			c.Attachment(name + ".xlsx")
			c.Set(fiber.HeaderContentType, xlsx.ContentType)
			return c.Send(buf.Bytes())
		}
	}
}

// SubmitProfileJobHandler queues a profile for the worker.
// POST /v1/profiles/jobs
func SubmitProfileJobHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseProfileRequest(c, deps)
		if err != nil {
			return writeError(c, err)
		}

		job, err := deps.Profiles.Submit(c.UserContext(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"jobId":       job.ID,
			"submittedAt": job.SubmittedAt,
			"events":      []string{natsadapter.SubjectComputed, natsadapter.SubjectFailed},
		})
	}
}
