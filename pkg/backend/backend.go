// Package backend maps document-processing backend operations onto HTTP calls.
package backend

import (
	"net/url"

	"github.com/quka-ai/course-console/pkg/apiclient"
)

const apiV1 = "/api/v1"

// Backend groups the resource facades that share one client.
type Backend struct {
	Outline         *OutlineAPI
	RAG             *RAGAPI
	CourseMaterials *CourseMaterialAPI
	Chat            *ChatAPI
	System          *SystemAPI
}

func New(cli *apiclient.Client) *Backend {
	return &Backend{
		Outline:         &OutlineAPI{cli: cli},
		RAG:             &RAGAPI{cli: cli},
		CourseMaterials: &CourseMaterialAPI{cli: cli},
		Chat:            &ChatAPI{cli: cli},
		System:          &SystemAPI{cli: cli},
	}
}

func seg(s string) string {
	return url.PathEscape(s)
}
