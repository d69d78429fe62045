package bigmelo

import (
	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/getkin/kin-openapi/openapi3"
)

// Response envelopes of the consumed endpoints, with the openapi3 schemas the
// verifier checks raw payloads against before decoding.

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type profileResponse struct {
	Data domain.Profile `json:"data"`
}

type organisationsResponse struct {
	Data  []domain.Organisation `json:"data"`
	Links pageLinks             `json:"links"`
	Meta  pageMeta              `json:"meta"`
}

type organisationResponse struct {
	Data domain.Organisation `json:"data"`
}

type dailyTotalsResponse struct {
	Data domain.DailyTotals `json:"data"`
}

type pageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type pageMeta struct {
	CurrentPage int        `json:"currentPage"`
	From        int        `json:"from"`
	LastPage    int        `json:"lastPage"`
	Links       []metaLink `json:"links"`
}

type metaLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

func nullableString() *openapi3.Schema {
	return openapi3.NewStringSchema().WithNullable()
}

func loginResponseSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("accessToken", openapi3.NewStringSchema())
	s.Required = []string{"accessToken"}
	return s
}

func organisationSchema() *openapi3.Schema {
	owner := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema())
	owner.Required = []string{"id", "name"}

	s := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewIntegerSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("owner", owner).
		WithProperty("createdAt", openapi3.NewStringSchema())
	s.Required = []string{"id", "name", "description", "owner", "createdAt"}
	return s
}

func pageLinksSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("first", nullableString()).
		WithProperty("last", nullableString()).
		WithProperty("prev", nullableString()).
		WithProperty("next", nullableString())
	s.Required = []string{"first", "last", "prev", "next"}
	return s
}

func pageMetaSchema() *openapi3.Schema {
	link := openapi3.NewObjectSchema().
		WithProperty("url", nullableString()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("active", openapi3.NewBoolSchema())
	link.Required = []string{"url", "label", "active"}

	s := openapi3.NewObjectSchema().
		WithProperty("currentPage", openapi3.NewIntegerSchema()).
		WithProperty("from", openapi3.NewIntegerSchema()).
		WithProperty("lastPage", openapi3.NewIntegerSchema()).
		WithProperty("links", openapi3.NewArraySchema().WithItems(link))
	s.Required = []string{"currentPage", "from", "lastPage", "links"}
	return s
}

func organisationsResponseSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("data", openapi3.NewArraySchema().WithItems(organisationSchema())).
		WithProperty("links", pageLinksSchema()).
		WithProperty("meta", pageMetaSchema())
	s.Required = []string{"data", "links", "meta"}
	return s
}

func organisationResponseSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("data", organisationSchema())
	s.Required = []string{"data"}
	return s
}

func profileResponseSchema() *openapi3.Schema {
	p := openapi3.NewObjectSchema().
		WithProperty("firstName", nullableString()).
		WithProperty("lastName", nullableString()).
		WithProperty("phoneNumber", openapi3.NewStringSchema()).
		WithProperty("email", nullableString()).
		WithProperty("role", openapi3.NewStringSchema()).
		WithProperty("remainingMessages", openapi3.NewStringSchema()).
		WithProperty("messageLimit", openapi3.NewStringSchema()).
		WithProperty("usedMessages", openapi3.NewIntegerSchema())
	p.Required = []string{"phoneNumber", "role", "remainingMessages", "messageLimit", "usedMessages"}

	s := openapi3.NewObjectSchema().WithProperty("data", p)
	s.Required = []string{"data"}
	return s
}

func dailyTotalsResponseSchema() *openapi3.Schema {
	totals := openapi3.NewObjectSchema().
		WithProperty("newLeads", openapi3.NewIntegerSchema()).
		WithProperty("newUsers", openapi3.NewIntegerSchema()).
		WithProperty("newMessages", openapi3.NewIntegerSchema()).
		WithProperty("newWhatsappMessages", openapi3.NewIntegerSchema()).
		WithProperty("newAudioMessages", openapi3.NewIntegerSchema()).
		WithProperty("dailyChats", openapi3.NewIntegerSchema())
	totals.Required = []string{"newLeads", "newUsers", "newMessages", "newWhatsappMessages", "newAudioMessages", "dailyChats"}

	s := openapi3.NewObjectSchema().WithProperty("data", totals)
	s.Required = []string{"data"}
	return s
}
