package main

import (
	"fmt"
	"log"

	"rentverse-server/models"
	"rentverse-server/storage"

	"gorm.io/gorm/clause"
)

// Seeds the amenity and property-type catalogs. Safe to run repeatedly:
// existing codes are left untouched.
func main() {
	db := storage.InitializeDB()

	amenities := []models.Amenity{
		{Code: "wifi", Name: "WiFi", Icon: "wifi"},
		{Code: "parking", Name: "Parking", Icon: "car"},
		{Code: "pool", Name: "Swimming Pool", Icon: "water"},
		{Code: "gym", Name: "Gym", Icon: "barbell"},
		{Code: "aircon", Name: "Air Conditioning", Icon: "snow"},
		{Code: "security", Name: "24h Security", Icon: "shield"},
		{Code: "furnished", Name: "Fully Furnished", Icon: "bed"},
		{Code: "pets", Name: "Pet Friendly", Icon: "paw"},
	}
	propertyTypes := []models.PropertyType{
		{Code: "condo", Name: "Condominium"},
		{Code: "apartment", Name: "Apartment"},
		{Code: "terrace", Name: "Terrace House"},
		{Code: "semi_d", Name: "Semi-Detached"},
		{Code: "bungalow", Name: "Bungalow"},
		{Code: "studio", Name: "Studio"},
	}

	for i := range amenities {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&amenities[i]).Error; err != nil {
			log.Fatalf("Error seeding amenity %s: %v", amenities[i].Code, err)
		}
	}
	for i := range propertyTypes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&propertyTypes[i]).Error; err != nil {
			log.Fatalf("Error seeding property type %s: %v", propertyTypes[i].Code, err)
		}
	}

	fmt.Println("Reference data seeding completed successfully!")
}
