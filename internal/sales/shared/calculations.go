package shared

// TotalPieces converts a bundle count plus loose pieces into a unit count.
func TotalPieces(bundles, piecesPerBundle, extraPieces int) int {
	return bundles*piecesPerBundle + extraPieces
}

// LineSubTotal prices a weighed line.
func LineSubTotal(weightKg, ratePerKg float64) float64 {
	return weightKg * ratePerKg
}

// GrandTotal nets a document's sub total against its discount.
func GrandTotal(subTotal, discount float64) float64 {
	return subTotal - discount
}
