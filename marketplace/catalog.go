package marketplace

import (
	"fmt"

	"service-marketplace-server/models"
)

// Category and provider management. Reference data the engine reads but does
// not own: plain keyed CRUD, the only cross-entity rule being that deleting a
// category scrubs it from every provider's service list.

// CreateCategory registers a new category; its id is a slug of the name
func (s *MarketplaceStore) CreateCategory(input models.ServiceCategoryCreate) (models.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Name == "" {
		return models.ServiceCategory{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	id := models.CategorySlug(input.Name)
	if _, ok := s.categories[id]; ok {
		return models.ServiceCategory{}, fmt.Errorf("%w: %s", ErrCategoryExists, id)
	}

	cat := &models.ServiceCategory{
		ID:        id,
		Name:      input.Name,
		Summary:   input.Summary,
		Image:     input.Image,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	s.categories[id] = cat
	s.categoryOrder = append(s.categoryOrder, id)
	s.persistCategory(cat)

	return *cat, nil
}

// UpdateCategory applies non-empty fields of the update to an existing category
func (s *MarketplaceStore) UpdateCategory(categoryID string, updates models.ServiceCategoryUpdate) (models.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[categoryID]
	if !ok {
		return models.ServiceCategory{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	if updates.Name != "" {
		cat.Name = updates.Name
	}
	if updates.Summary != "" {
		cat.Summary = updates.Summary
	}
	if updates.Image != "" {
		cat.Image = updates.Image
	}
	cat.UpdatedAt = s.now()
	s.persistCategory(cat)

	return *cat, nil
}

// SetCategoryImage stores the uploaded image URL on a category
func (s *MarketplaceStore) SetCategoryImage(categoryID, imageURL string) (models.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[categoryID]
	if !ok {
		return models.ServiceCategory{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	cat.Image = imageURL
	cat.UpdatedAt = s.now()
	s.persistCategory(cat)

	return *cat, nil
}

// DeleteCategory removes a category and scrubs it from every provider's
// service list (referential cleanup)
func (s *MarketplaceStore) DeleteCategory(categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[categoryID]; !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	delete(s.categories, categoryID)
	for i, id := range s.categoryOrder {
		if id == categoryID {
			s.categoryOrder = append(s.categoryOrder[:i], s.categoryOrder[i+1:]...)
			break
		}
	}

	for _, provider := range s.providers {
		kept := provider.Services[:0]
		removed := false
		for _, id := range provider.Services {
			if id == categoryID {
				removed = true
				continue
			}
			kept = append(kept, id)
		}
		if removed {
			provider.Services = kept
			s.persistProvider(provider)
		}
	}

	if s.persister != nil {
		if err := s.persister.DeleteCategory(categoryID); err != nil {
			return err
		}
	}
	return nil
}

// GetCategory returns the category with the given id
func (s *MarketplaceStore) GetCategory(categoryID string) (models.ServiceCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[categoryID]
	if !ok {
		return models.ServiceCategory{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	return *cat, nil
}

// ListCategories returns all categories in creation order
func (s *MarketplaceStore) ListCategories() []models.ServiceCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ServiceCategory, 0, len(s.categoryOrder))
	for _, id := range s.categoryOrder {
		out = append(out, *s.categories[id])
	}
	return out
}

// CreateProvider registers a new service provider
func (s *MarketplaceStore) CreateProvider(input models.ServiceProviderCreate) (models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Name == "" {
		return models.ServiceProvider{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	for _, categoryID := range input.Services {
		if _, ok := s.categories[categoryID]; !ok {
			return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
		}
	}

	provider := &models.ServiceProvider{
		ID:       s.newProviderID(),
		Name:     input.Name,
		Bio:      input.Bio,
		Location: input.Location,
		Avatar:   input.Avatar,
		Contact: models.Contact{
			Email: input.Email,
			Phone: input.Phone,
		},
		Services:  append([]string(nil), input.Services...),
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	s.providers[provider.ID] = provider
	s.providerOrder = append(s.providerOrder, provider.ID)
	s.persistProvider(provider)

	return cloneProvider(provider), nil
}

// UpdateProvider applies non-empty fields of the update to a provider profile
func (s *MarketplaceStore) UpdateProvider(providerID string, updates models.ServiceProviderUpdate) (models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}
	if updates.Name != "" {
		provider.Name = updates.Name
	}
	if updates.Bio != "" {
		provider.Bio = updates.Bio
	}
	if updates.Location != "" {
		provider.Location = updates.Location
	}
	if updates.Avatar != "" {
		provider.Avatar = updates.Avatar
	}
	if updates.Email != "" {
		provider.Contact.Email = updates.Email
	}
	if updates.Phone != "" {
		provider.Contact.Phone = updates.Phone
	}
	provider.UpdatedAt = s.now()
	s.persistProvider(provider)

	return cloneProvider(provider), nil
}

// GetProvider returns the provider with the given id
func (s *MarketplaceStore) GetProvider(providerID string) (models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}
	return cloneProvider(provider), nil
}

// ListProviders returns all providers in creation order, optionally filtered
// to those servicing a category
func (s *MarketplaceStore) ListProviders(categoryID string) []models.ServiceProvider {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ServiceProvider
	for _, id := range s.providerOrder {
		provider := s.providers[id]
		if categoryID != "" && !provider.ServicesCategory(categoryID) {
			continue
		}
		out = append(out, cloneProvider(provider))
	}
	return out
}

// AssignProviderToCategory adds a category to a provider's service list.
// Adding an already-listed category is a no-op (set semantics).
func (s *MarketplaceStore) AssignProviderToCategory(providerID, categoryID string) (models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}
	if _, ok := s.categories[categoryID]; !ok {
		return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	if !provider.ServicesCategory(categoryID) {
		provider.Services = append(provider.Services, categoryID)
		provider.UpdatedAt = s.now()
		s.persistProvider(provider)
	}
	return cloneProvider(provider), nil
}

// RemoveProviderFromCategory drops a category from a provider's service list
func (s *MarketplaceStore) RemoveProviderFromCategory(providerID, categoryID string) (models.ServiceProvider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, ok := s.providers[providerID]
	if !ok {
		return models.ServiceProvider{}, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}
	kept := provider.Services[:0]
	for _, id := range provider.Services {
		if id != categoryID {
			kept = append(kept, id)
		}
	}
	provider.Services = kept
	provider.UpdatedAt = s.now()
	s.persistProvider(provider)

	return cloneProvider(provider), nil
}
