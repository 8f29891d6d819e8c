// Package geo — вычисление расстояний по дуге большого круга для поиска
// магазинов поблизости.
package geo

import "math"

// EarthRadiusKm — средний радиус Земли, используемый при вычислении.
const EarthRadiusKm = 6371.0

// Distance возвращает расстояние в километрах между двумя точками WGS-84
// по сферической теореме косинусов:
//
//	d = R * acos(cos(lat1)*cos(lat2)*cos(lon2-lon1) + sin(lat1)*sin(lat2))
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlon := radians(lon2) - radians(lon1)

	cosine := math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlon) +
		math.Sin(rlat1)*math.Sin(rlat2)

	// Из-за плавающей точки аргумент может чуть выйти за [-1, 1] для
	// совпадающих или антиподальных точек, и Acos вернёт NaN.
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}

	return EarthRadiusKm * math.Acos(cosine)
}

// ValidCoordinate проверяет, что пара пригодна как координата WGS-84:
// конечные значения в пределах десятичных градусов.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
