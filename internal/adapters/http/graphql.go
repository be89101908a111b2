package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the profile service.
// Object fields resolve from the json tags of the domain types.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat":  &graphql.Field{Type: graphql.Float},
			"lon":  &graphql.Field{Type: graphql.Float},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	geoPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GeoPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"name": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	sampleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProfileSample",
		Fields: graphql.Fields{
			"index":          &graphql.Field{Type: graphql.Int},
			"distanceMeters": &graphql.Field{Type: graphql.Float},
			"lat":            &graphql.Field{Type: graphql.Float},
			"lon":            &graphql.Field{Type: graphql.Float},
			"terrain":        &graphql.Field{Type: graphql.Float},
			"terrainEff":     &graphql.Field{Type: graphql.Float},
			"los":            &graphql.Field{Type: graphql.Float},
			"fresnelR1":      &graphql.Field{Type: graphql.Float},
			"clearance":      &graphql.Field{Type: graphql.Float},
			"clearance60":    &graphql.Field{Type: graphql.Float},
		},
	})

	criticalPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CriticalPoint",
		Fields: graphql.Fields{
			"distanceMeters": &graphql.Field{Type: graphql.Float},
			"lat":            &graphql.Field{Type: graphql.Float},
			"lon":            &graphql.Field{Type: graphql.Float},
		},
	})

	liftType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RecommendedLift",
		Fields: graphql.Fields{
			"onlyA":     &graphql.Field{Type: graphql.Float},
			"onlyB":     &graphql.Field{Type: graphql.Float},
			"bothEqual": &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProfileSummary",
		Fields: graphql.Fields{
			"distanceMeters":  &graphql.Field{Type: graphql.Float},
			"losOk":           &graphql.Field{Type: graphql.Boolean},
			"fresnelOk":       &graphql.Field{Type: graphql.Boolean},
			"minClearance":    &graphql.Field{Type: graphql.Float},
			"minClearance60":  &graphql.Field{Type: graphql.Float},
			"criticalPoint":   &graphql.Field{Type: criticalPointType},
			"recommendedLift": &graphql.Field{Type: liftType},
		},
	})

	requestType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProfileInput",
		Fields: graphql.Fields{
			"a":          &graphql.Field{Type: geoPointType},
			"b":          &graphql.Field{Type: geoPointType},
			"antennaA":   &graphql.Field{Type: graphql.Float},
			"antennaB":   &graphql.Field{Type: graphql.Float},
			"freqGHz":    &graphql.Field{Type: graphql.Float},
			"kFactor":    &graphql.Field{Type: graphql.Float},
			"stepMeters": &graphql.Field{Type: graphql.Float},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"input":             &graphql.Field{Type: requestType},
			"summary":           &graphql.Field{Type: summaryType},
			"samples":           &graphql.Field{Type: graphql.NewList(sampleType)},
			"elevationProvider": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"profile": &graphql.Field{
				Type:        profileType,
				Description: "Compute the path profile of a radio-relay hop",
				Args: graphql.FieldConfigArgument{
					"a":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(geoPointInput)},
					"b":          &graphql.ArgumentConfig{Type: graphql.NewNonNull(geoPointInput)},
					"antennaA":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"antennaB":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"freqGHz":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"kFactor":    &graphql.ArgumentConfig{Type: graphql.Float},
					"stepMeters": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					defaults := deps.Profiles.Defaults()
					req := domain.ProfileRequest{
						A:          pointArg(p.Args["a"]),
						B:          pointArg(p.Args["b"]),
						AntennaA:   floatArg(p.Args["antennaA"], 0),
						AntennaB:   floatArg(p.Args["antennaB"], 0),
						FreqGHz:    floatArg(p.Args["freqGHz"], 0),
						KFactor:    floatArg(p.Args["kFactor"], defaults.KFactor),
						StepMeters: floatArg(p.Args["stepMeters"], defaults.StepMeters),
					}
					result, err := deps.Profiles.Compute(p.Context, req)
					if err != nil {
						return nil, gqlError(err)
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func floatArg(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}

func pointArg(v interface{}) domain.GeoPoint {
	m, _ := v.(map[string]interface{})
	name, _ := m["name"].(string)
	return domain.GeoPoint{
		Lat:  floatArg(m["lat"], 0),
		Lon:  floatArg(m["lon"], 0),
		Name: name,
	}
}

// gqlError renders a domain error as "CODE: message" without its cause.
func gqlError(err error) error {
	if derr, ok := domain.AsError(err); ok {
		return fmt.Errorf("%s: %s", derr.Code, derr.Message)
	}
	return fmt.Errorf("%s: internal error", domain.CodeInternal)
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
