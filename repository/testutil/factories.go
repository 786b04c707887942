package testutil

import (
	"fmt"

	"subsdesk/models"
)

// CreateTestExternalSubscriber returns an active domestic subscriber
func CreateTestExternalSubscriber(id string) *models.ExternalSubscriber {
	return &models.ExternalSubscriber{
		ID:             id,
		FullName:       fmt.Sprintf("Abonné %s", id),
		Email:          fmt.Sprintf("%s@partenaire.fr", id),
		Address1:       "12 rue des Lilas",
		Zip:            "69001",
		City:           "Lyon",
		CountryCode:    "FR",
		BillingCountry: "FRANCE",
		Quantity:       1,
		Active:         true,
	}
}

// CreateTestInactiveSubscriber returns a subscriber that should never be shipped
func CreateTestInactiveSubscriber(id string) *models.ExternalSubscriber {
	sub := CreateTestExternalSubscriber(id)
	sub.Active = false
	return sub
}
