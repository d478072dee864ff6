package v1

import (
	"context"
	"strings"

	"github.com/quka-ai/course-console/app/core"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/upload"
)

type RAGLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewRAGLogic(ctx context.Context, core *core.Core) *RAGLogic {
	return &RAGLogic{ctx: ctx, core: core}
}

// Index uploads the selected markdown file into a vector collection.
func (l *RAGLogic) Index(sel *upload.Selector, req types.IndexRequest) (*types.IndexResponse, error) {
	if err := fieldError(required("course_id", req.CourseID, "course_material_id", req.CourseMaterialID)); err != nil {
		return nil, errors.Trace("RAGLogic.Index", err)
	}
	_, form, err := selectedForm("RAGLogic.Index.SelectedFile", sel, req.FormFields())
	if err != nil {
		return nil, err
	}
	res, err := l.core.Backend().RAG.BuildIndex(l.ctx, form)
	if err != nil {
		return nil, errors.Trace("RAGLogic.Index.BuildIndex", err)
	}
	return res, nil
}

func (l *RAGLogic) Query(req types.QueryRequest) (*types.QueryResponse, error) {
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return nil, errors.Validation("RAGLogic.Query", i18n.T(i18n.ERROR_CHAT_QUESTION_REQUIRED))
	}
	if req.Mode == "" {
		req.Mode = types.CHAT_MODE_QUERY
	}
	res, err := l.core.Backend().RAG.Query(l.ctx, req)
	if err != nil {
		return nil, errors.Trace("RAGLogic.Query", err)
	}
	return res, nil
}

func (l *RAGLogic) Collections() (*types.CollectionList, error) {
	res, err := l.core.Backend().RAG.GetCollections(l.ctx)
	if err != nil {
		return nil, errors.Trace("RAGLogic.Collections", err)
	}
	return res, nil
}

func (l *RAGLogic) CollectionInfo(name string) (*types.CollectionInfo, error) {
	if err := fieldError(required("collection_name", name)); err != nil {
		return nil, errors.Trace("RAGLogic.CollectionInfo", err)
	}
	res, err := l.core.Backend().RAG.GetCollectionInfo(l.ctx, name)
	if err != nil {
		return nil, errors.Trace("RAGLogic.CollectionInfo", err)
	}
	return res, nil
}

func (l *RAGLogic) DeleteCollection(name string) (*types.DeleteCollectionResponse, error) {
	if err := fieldError(required("collection_name", name)); err != nil {
		return nil, errors.Trace("RAGLogic.DeleteCollection", err)
	}
	res, err := l.core.Backend().RAG.DeleteCollection(l.ctx, name)
	if err != nil {
		return nil, errors.Trace("RAGLogic.DeleteCollection", err)
	}
	return res, nil
}
