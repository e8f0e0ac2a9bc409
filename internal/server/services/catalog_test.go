package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) (*CatalogService, *memStore) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	m := newMemStore()
	return NewCatalogService(db, m), m
}

func TestSearchCities(t *testing.T) {
	s, m := newCatalogService(t)
	m.addCity("Paris", "France", 48.8, 2.3)
	m.addCity("Parma", "Italy", 44.8, 10.3)
	m.addCity("Oslo", "Norway", 59.9, 10.7)

	got, err := s.SearchCities(context.Background(), " par ", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Paris", got[0].Name)

	one, err := s.SearchCities(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestCreateCity(t *testing.T) {
	s, m := newCatalogService(t)

	c, err := s.CreateCity(context.Background(), &models.City{Name: " Porto ", Country: "Portugal", Latitude: 41.1, Longitude: -8.6})
	require.NoError(t, err)
	assert.Equal(t, "Porto", m.cities[c.ID].Name)

	_, err = s.CreateCity(context.Background(), &models.City{Name: "", Country: "X", Latitude: 91, Longitude: -181, CostIndex: -1})
	assert.Equal(t, []string{"name", "cost_index", "latitude", "longitude"}, fieldNames(t, err))
}

func TestUpdateAndDeleteCity(t *testing.T) {
	s, m := newCatalogService(t)
	c := m.addCity("Porto", "Portugal", 41.1, -8.6)

	c.Popularity = 40
	_, err := s.UpdateCity(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 40, m.cities[c.ID].Popularity)

	_, err = s.UpdateCity(context.Background(), &models.City{ID: "c404", Name: "X", Country: "Y"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, s.DeleteCity(context.Background(), c.ID))
	assert.ErrorIs(t, s.DeleteCity(context.Background(), c.ID), common.ErrorNotFound)
}

func TestActivities(t *testing.T) {
	s, m := newCatalogService(t)
	c := m.addCity("Rome", "Italy", 41.9, 12.5)

	a, err := s.CreateActivity(context.Background(), &models.Activity{CityID: c.ID, Name: "Colosseum", Category: " Sightseeing ", Cost: 18})
	require.NoError(t, err)
	assert.Equal(t, "sightseeing", a.Category)
	m.addActivity(c.ID, "Cooking class", 90)

	cheap, err := s.ListActivities(context.Background(), models.ActivityFilter{CityID: c.ID, MaxCost: 50})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "Colosseum", cheap[0].Name)

	_, err = s.ListActivities(context.Background(), models.ActivityFilter{MaxCost: -1})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.CreateActivity(context.Background(), &models.Activity{Name: "x", Category: "food", Cost: -1})
	assert.Equal(t, []string{"city_id", "cost"}, fieldNames(t, err))

	require.NoError(t, s.DeleteActivity(context.Background(), a.ID))
}
