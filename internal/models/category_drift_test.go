package models_test

import (
	"github.com/google/uuid"
	"github.com/mirrorbank/backend/internal/models"
	"github.com/mirrorbank/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategoryDrift() {
	suite.createTestTransaction(models.Transaction{Category: "groceries"})
	suite.createTestTransaction(models.Transaction{Category: "Groceries"})
	suite.createTestTransaction(models.Transaction{Category: "Rent"})
	suite.createTestBudget(models.Budget{Category: "GROCERIES", StartDate: types.NewDate(2024, 3, 1), LimitAmount: decimal.NewFromInt(1)})
	suite.createTestBudget(models.Budget{Category: "Rent", StartDate: types.NewDate(2024, 3, 1), LimitAmount: decimal.NewFromInt(1)})
	suite.createTestCategoryRule(models.CategoryRule{Match: "Straße*", Category: "Straße"})
	suite.createTestTransaction(models.Transaction{Category: "STRASSE"})

	// Other owners do not contribute spellings
	suite.createTestTransaction(models.Transaction{OwnerID: uuid.New(), Category: "RENT"})

	drift, err := models.CategoryDrift(models.DB, suite.owner)
	suite.Require().Nil(err)
	suite.Require().Len(drift, 2)

	suite.Assert().Equal("groceries", drift[0].Folded)
	suite.Assert().Equal([]string{"GROCERIES", "Groceries", "groceries"}, drift[0].Spellings)

	suite.Assert().Equal("strasse", drift[1].Folded)
	suite.Assert().Equal([]string{"STRASSE", "Straße"}, drift[1].Spellings)
}
