package backend

import (
	"context"

	"github.com/quka-ai/course-console/pkg/apiclient"
	"github.com/quka-ai/course-console/pkg/types"
)

type RAGAPI struct {
	cli *apiclient.Client
}

func (a *RAGAPI) BuildIndex(ctx context.Context, form *apiclient.Form) (*types.IndexResponse, error) {
	var res types.IndexResponse
	if err := a.cli.PostForm(ctx, apiV1+"/rag/index", form, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *RAGAPI) Query(ctx context.Context, req types.QueryRequest) (*types.QueryResponse, error) {
	var res types.QueryResponse
	if err := a.cli.Post(ctx, apiV1+"/rag/query", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *RAGAPI) GetCollections(ctx context.Context) (*types.CollectionList, error) {
	var res types.CollectionList
	if err := a.cli.Get(ctx, apiV1+"/rag/collections", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *RAGAPI) DeleteCollection(ctx context.Context, name string) (*types.DeleteCollectionResponse, error) {
	var res types.DeleteCollectionResponse
	if err := a.cli.Delete(ctx, apiV1+"/rag/collections/"+seg(name), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (a *RAGAPI) GetCollectionInfo(ctx context.Context, name string) (*types.CollectionInfo, error) {
	var res types.CollectionInfo
	if err := a.cli.Get(ctx, apiV1+"/rag/collections/"+seg(name)+"/info", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
