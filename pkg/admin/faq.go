package admin

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eshaffer321/ragadmin-go/internal/transport"
	"github.com/pkg/errors"
)

// faqService implements the FAQService interface
type faqService struct {
	client *Client
}

// Get retrieves the FAQ for lang
func (s *faqService) Get(ctx context.Context, lang string) (*FAQContent, error) {
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, faqPath(lang), nil, "failed to get FAQ")
}

// Update replaces the FAQ for lang
func (s *faqService) Update(ctx context.Context, lang string, content *FAQContent) (*FAQContent, error) {
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	if content == nil {
		return nil, newValidationError("content", "Content is required", nil)
	}
	for _, category := range content.Content {
		if category == nil {
			return nil, newValidationError("category", "Category name is required", nil)
		}
		if err := validateCategoryName(category.Category); err != nil {
			return nil, err
		}
		for _, item := range category.Items {
			if err := validateFAQItem(item); err != nil {
				return nil, err
			}
		}
	}
	return s.do(ctx, http.MethodPut, faqPath(lang), content, "failed to update FAQ")
}

// AddCategory appends a category
func (s *faqService) AddCategory(ctx context.Context, lang string, category *FAQCategory) (*FAQContent, error) {
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, newValidationError("category", "Category name is required", nil)
	}
	if err := validateCategoryName(category.Category); err != nil {
		return nil, err
	}
	body := *category
	if body.Items == nil {
		body.Items = []*FAQItem{}
	}
	return s.do(ctx, http.MethodPost, faqPath(lang)+"/category", &body, "failed to add FAQ category")
}

// DeleteCategory removes a category and its items
func (s *faqService) DeleteCategory(ctx context.Context, lang, categoryName string) (*FAQContent, error) {
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	if err := validateCategoryName(categoryName); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodDelete, categoryPath(lang, categoryName), nil, "failed to delete FAQ category")
}

// AddItem appends an item to a category
func (s *faqService) AddItem(ctx context.Context, lang, categoryName string, item *FAQItem) (*FAQContent, error) {
	if err := s.checkItemTarget(lang, categoryName, 0); err != nil {
		return nil, err
	}
	if err := validateFAQItem(item); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, categoryPath(lang, categoryName)+"/item", item, "failed to add FAQ item")
}

// UpdateItem replaces the item at index
func (s *faqService) UpdateItem(ctx context.Context, lang, categoryName string, index int, item *FAQItem) (*FAQContent, error) {
	if err := s.checkItemTarget(lang, categoryName, index); err != nil {
		return nil, err
	}
	if err := validateFAQItem(item); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPut, itemPath(lang, categoryName, index), item, "failed to update FAQ item")
}

// DeleteItem removes the item at index
func (s *faqService) DeleteItem(ctx context.Context, lang, categoryName string, index int) (*FAQContent, error) {
	if err := s.checkItemTarget(lang, categoryName, index); err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodDelete, itemPath(lang, categoryName, index), nil, "failed to delete FAQ item")
}

// ReorderCategories sets the category order by name
func (s *faqService) ReorderCategories(ctx context.Context, lang string, order []string) (*FAQContent, error) {
	if err := validateLanguage(lang); err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, newValidationError("order", "Order is required", order)
	}
	body := map[string][]string{"order": order}
	return s.do(ctx, http.MethodPut, faqPath(lang)+"/reorder-categories", body, "failed to reorder FAQ categories")
}

// ReorderItems sets the item order of a category by current index
func (s *faqService) ReorderItems(ctx context.Context, lang, categoryName string, order []int) (*FAQContent, error) {
	if err := s.checkItemTarget(lang, categoryName, 0); err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, newValidationError("order", "Order is required", order)
	}
	body := map[string][]int{"order": order}
	return s.do(ctx, http.MethodPut, categoryPath(lang, categoryName)+"/reorder-items", body, "failed to reorder FAQ items")
}

// Languages lists the FAQ languages
func (s *faqService) Languages(ctx context.Context) ([]*Language, error) {
	var result []*Language
	if err := s.client.execute(ctx, &transport.Request{Method: http.MethodGet, Path: "/admin/faq/languages"}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get FAQ languages")
	}
	return result, nil
}

func (s *faqService) do(ctx context.Context, method, path string, body interface{}, msg string) (*FAQContent, error) {
	var result FAQContent
	if err := s.client.execute(ctx, &transport.Request{Method: method, Path: path, Body: body}, &result); err != nil {
		return nil, errors.Wrap(err, msg)
	}
	return &result, nil
}

func (s *faqService) checkItemTarget(lang, categoryName string, index int) error {
	if err := validateLanguage(lang); err != nil {
		return err
	}
	if err := validateCategoryName(categoryName); err != nil {
		return err
	}
	if index < 0 {
		return newValidationError("index", "Index must not be negative", index)
	}
	return nil
}

func faqPath(lang string) string {
	return "/admin/faq/" + url.PathEscape(lang)
}

func categoryPath(lang, categoryName string) string {
	return faqPath(lang) + "/category/" + url.PathEscape(categoryName)
}

func itemPath(lang, categoryName string, index int) string {
	return categoryPath(lang, categoryName) + "/item/" + strconv.Itoa(index)
}
