package repositories_test

import (
	"testing"

	"foodexpress/internal/apperrors"
	"foodexpress/internal/models"
	"foodexpress/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type productRepositorySuite struct {
	suite.Suite

	newRepo func() repositories.ProductRepository
}

func TestMemoryProductRepository(t *testing.T) {
	suite.Run(t, &productRepositorySuite{
		newRepo: func() repositories.ProductRepository { return repositories.NewMemoryProductRepository() },
	})
}

func TestGORMProductRepository(t *testing.T) {
	suite.Run(t, &productRepositorySuite{
		newRepo: func() repositories.ProductRepository {
			return repositories.NewGORMProductRepository(openTestDB(t))
		},
	})
}

func seedProducts() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Burger Clássico", Description: "Pão, carne 160g, queijo e molho da casa.", Price: decimal.RequireFromString("24.90"), ImageGlyph: "🍔"},
		{ID: "2", Name: "Pizza Margherita", Description: "Molho de tomate, muçarela, manjericão.", Price: decimal.RequireFromString("39.90"), ImageGlyph: "🍕"},
	}
}

func (s *productRepositorySuite) TestCreateAndGet() {
	repo := s.newRepo()
	for _, p := range seedProducts() {
		p := p
		s.Require().NoError(repo.Create(&p))
	}

	all, err := repo.GetAll()
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("1", all[0].ID)
	s.Equal("2", all[1].ID)

	got, err := repo.GetByID("2")
	s.Require().NoError(err)
	s.Equal("Pizza Margherita", got.Name)
	s.True(decimal.RequireFromString("39.90").Equal(got.Price), "price %s", got.Price)
}

func (s *productRepositorySuite) TestCreateTwiceUpdates() {
	repo := s.newRepo()
	p := seedProducts()[0]
	s.Require().NoError(repo.Create(&p))

	p.Price = decimal.RequireFromString("26.00")
	s.Require().NoError(repo.Create(&p))

	all, err := repo.GetAll()
	s.Require().NoError(err)
	s.Len(all, 1)
	s.True(decimal.RequireFromString("26").Equal(all[0].Price))
}

func (s *productRepositorySuite) TestCreateAssignsID() {
	repo := s.newRepo()
	p := models.Product{Name: "Salada Caesar", Price: decimal.RequireFromString("22.50")}
	s.Require().NoError(repo.Create(&p))
	s.NotEmpty(p.ID)
}

func (s *productRepositorySuite) TestGetByIDNotFound() {
	repo := s.newRepo()
	_, err := repo.GetByID("missing")
	s.Require().Error(err)
	s.True(apperrors.IsNotFound(err))
}

func TestMemoryProductRepository_EmptyList(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}
