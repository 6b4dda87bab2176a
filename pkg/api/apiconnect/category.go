package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/pkg/api"
)

// CategoryServiceName is the fully-qualified name of the CategoryService service.
const CategoryServiceName = "settleup.v1.CategoryService"

// These constants are the fully-qualified names of the RPCs defined in this service.
const (
	// CategoryServiceListCategoriesProcedure is the path of the CategoryService.ListCategories RPC.
	CategoryServiceListCategoriesProcedure = "/settleup.v1.CategoryService/ListCategories"
	// CategoryServiceCreateCategoryProcedure is the path of the CategoryService.CreateCategory RPC.
	CategoryServiceCreateCategoryProcedure = "/settleup.v1.CategoryService/CreateCategory"
	// CategoryServiceUpdateCategoryProcedure is the path of the CategoryService.UpdateCategory RPC.
	CategoryServiceUpdateCategoryProcedure = "/settleup.v1.CategoryService/UpdateCategory"
	// CategoryServiceDeleteCategoryProcedure is the path of the CategoryService.DeleteCategory RPC.
	CategoryServiceDeleteCategoryProcedure = "/settleup.v1.CategoryService/DeleteCategory"
)

// CategoryServiceHandler is implemented by the CategoryService server.
// It manages expense categories of a group.
type CategoryServiceHandler interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	UpdateCategory(context.Context, *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.UpdateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
}

// NewCategoryServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewCategoryServiceHandler(svc CategoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	listCategories := connect.NewUnaryHandler(CategoryServiceListCategoriesProcedure, svc.ListCategories, opts...)
	createCategory := connect.NewUnaryHandler(CategoryServiceCreateCategoryProcedure, svc.CreateCategory, opts...)
	updateCategory := connect.NewUnaryHandler(CategoryServiceUpdateCategoryProcedure, svc.UpdateCategory, opts...)
	deleteCategory := connect.NewUnaryHandler(CategoryServiceDeleteCategoryProcedure, svc.DeleteCategory, opts...)
	return "/settleup.v1.CategoryService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CategoryServiceListCategoriesProcedure:
			listCategories.ServeHTTP(w, r)
		case CategoryServiceCreateCategoryProcedure:
			createCategory.ServeHTTP(w, r)
		case CategoryServiceUpdateCategoryProcedure:
			updateCategory.ServeHTTP(w, r)
		case CategoryServiceDeleteCategoryProcedure:
			deleteCategory.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CategoryServiceClient is a client for the settleup.v1.CategoryService service.
type CategoryServiceClient interface {
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	CreateCategory(context.Context, *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error)
	UpdateCategory(context.Context, *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.UpdateCategoryResponse], error)
	DeleteCategory(context.Context, *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error)
}

// NewCategoryServiceClient constructs a client for the settleup.v1.CategoryService service.
// The URL supplied should be the base URL of the server (for example,
// http://localhost:8080).
func NewCategoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CategoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &categoryServiceClient{
		listCategories: connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+CategoryServiceListCategoriesProcedure, opts...),
		createCategory: connect.NewClient[api.CreateCategoryRequest, api.CreateCategoryResponse](httpClient, baseURL+CategoryServiceCreateCategoryProcedure, opts...),
		updateCategory: connect.NewClient[api.UpdateCategoryRequest, api.UpdateCategoryResponse](httpClient, baseURL+CategoryServiceUpdateCategoryProcedure, opts...),
		deleteCategory: connect.NewClient[api.DeleteCategoryRequest, api.DeleteCategoryResponse](httpClient, baseURL+CategoryServiceDeleteCategoryProcedure, opts...),
	}
}

type categoryServiceClient struct {
	listCategories *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	createCategory *connect.Client[api.CreateCategoryRequest, api.CreateCategoryResponse]
	updateCategory *connect.Client[api.UpdateCategoryRequest, api.UpdateCategoryResponse]
	deleteCategory *connect.Client[api.DeleteCategoryRequest, api.DeleteCategoryResponse]
}

func (c *categoryServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *categoryServiceClient) CreateCategory(ctx context.Context, req *connect.Request[api.CreateCategoryRequest]) (*connect.Response[api.CreateCategoryResponse], error) {
	return c.createCategory.CallUnary(ctx, req)
}

func (c *categoryServiceClient) UpdateCategory(ctx context.Context, req *connect.Request[api.UpdateCategoryRequest]) (*connect.Response[api.UpdateCategoryResponse], error) {
	return c.updateCategory.CallUnary(ctx, req)
}

func (c *categoryServiceClient) DeleteCategory(ctx context.Context, req *connect.Request[api.DeleteCategoryRequest]) (*connect.Response[api.DeleteCategoryResponse], error) {
	return c.deleteCategory.CallUnary(ctx, req)
}
