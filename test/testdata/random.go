package testdata

import (
	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Company()
}

func RandomRestaurantName() string {
	return gofakeit.Company() + " " + gofakeit.RandomString([]string{"Bistro", "Diner", "Kitchen", "Grill"})
}

func RandomDescription() string {
	return gofakeit.Sentence(8)
}

func RandomEmail() string {
	return gofakeit.Email()
}

func RandomQuestion() string {
	return gofakeit.Question()
}

func RandomComment() string {
	return gofakeit.Sentence(12)
}

// RandomRating returns a rating on the 1-5 scale.
func RandomRating() int {
	return gofakeit.IntRange(1, 5)
}
