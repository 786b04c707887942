package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExternalSubscriber is a subscriber kept outside the shop exports (partners, gifts)
type ExternalSubscriber struct {
	ID             string    `db:"subscriber_id" bson:"subscriber_id"`
	FullName       string    `db:"full_name" bson:"full_name"`
	Email          string    `db:"email" bson:"email"`
	Address1       string    `db:"address1" bson:"address1"`
	Address2       string    `db:"address2" bson:"address2"`
	Zip            string    `db:"zip" bson:"zip"`
	City           string    `db:"city" bson:"city"`
	ProvinceCode   string    `db:"province_code" bson:"province_code"`
	CountryCode    string    `db:"country_code" bson:"country_code"`
	BillingCountry string    `db:"billing_country" bson:"billing_country"`
	Quantity       int       `db:"quantity" bson:"quantity"`
	Active         bool      `db:"active" bson:"active"`
	CreatedAt      time.Time `db:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" bson:"updated_at"`
}

// ExternalSubscriberDocument is the document-store shape of an external subscriber
type ExternalSubscriberDocument struct {
	ObjectID           primitive.ObjectID `bson:"_id,omitempty"`
	ExternalSubscriber `bson:",inline"`
}
