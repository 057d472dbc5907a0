package service

import (
	"time"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// ReferenceCatalog returns the development data set. Campaign validity is
// relative to now.
func ReferenceCatalog(now time.Time) ([]model.Vehicle, []model.Location, []model.Campaign) {
	vehicles := []model.Vehicle{
		{
			ID: "v001", Brand: "Toyota", Model: "Corolla", Year: 2023, Plate: "34 *** 01", Color: "Beyaz",
			Segment: "Ekonomi", Transmission: "Otomatik", FuelType: "Benzin", Seats: 5, Doors: 4, DailyPrice: 850,
			Features:  []string{"Klima", "Bluetooth", "Geri Görüş Kamerası", "Park Sensörü"},
			Images:    []string{"https://images.unsplash.com/photo-1623869675781-80aa31012a5a?w=800"},
			Available: true, Km: 15000, BaggageCapacity: "Orta", MinAge: 21, MinLicenseYears: 1, Deposit: 1000, KmLimit: 300,
		},
		{
			ID: "v002", Brand: "Volkswagen", Model: "Passat", Year: 2023, Plate: "34 *** 02", Color: "Siyah",
			Segment: "Orta", Transmission: "Otomatik", FuelType: "Dizel", Seats: 5, Doors: 4, DailyPrice: 1200,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Deri Koltuk", "Sunroof"},
			Images:    []string{"https://images.unsplash.com/photo-1632548260498-b7246fa466ea?w=800"},
			Available: true, Km: 25000, BaggageCapacity: "Büyük", MinAge: 23, MinLicenseYears: 2, Deposit: 2000, KmLimit: 350,
		},
		{
			ID: "v003", Brand: "BMW", Model: "520i", Year: 2024, Plate: "34 *** 03", Color: "Lacivert",
			Segment: "Lüks", Transmission: "Otomatik", FuelType: "Benzin", Seats: 5, Doors: 4, DailyPrice: 2500,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Deri Koltuk", "Sunroof", "Harman Kardon", "360 Kamera"},
			Images:    []string{"https://images.unsplash.com/photo-1555215695-3004980ad54e?w=800"},
			Available: true, Km: 8000, BaggageCapacity: "Büyük", MinAge: 25, MinLicenseYears: 3, Deposit: 5000, KmLimit: 400,
		},
		{
			ID: "v004", Brand: "Mercedes", Model: "E200", Year: 2024, Plate: "34 *** 04", Color: "Gri",
			Segment: "Lüks", Transmission: "Otomatik", FuelType: "Hibrit", Seats: 5, Doors: 4, DailyPrice: 2800,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Deri Koltuk", "Sunroof", "Burmester", "360 Kamera", "Masaj Koltuğu"},
			Images:    []string{"https://images.unsplash.com/photo-1618843479313-40f8afb4b4d8?w=800"},
			Available: true, Km: 5000, BaggageCapacity: "Büyük", MinAge: 25, MinLicenseYears: 3, Deposit: 6000, KmLimit: 400,
		},
		{
			ID: "v005", Brand: "Hyundai", Model: "Tucson", Year: 2023, Plate: "34 *** 05", Color: "Kırmızı",
			Segment: "SUV", Transmission: "Otomatik", FuelType: "Dizel", Seats: 5, Doors: 5, DailyPrice: 1500,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Geri Görüş Kamerası", "Park Sensörü"},
			Images:    []string{"https://images.unsplash.com/photo-1606664515524-ed2f786a0bd6?w=800"},
			Available: true, Km: 20000, BaggageCapacity: "Çok Büyük", MinAge: 23, MinLicenseYears: 2, Deposit: 2500, KmLimit: 350,
		},
		{
			ID: "v006", Brand: "Renault", Model: "Clio", Year: 2023, Plate: "34 *** 06", Color: "Turuncu",
			Segment: "Ekonomi", Transmission: "Manuel", FuelType: "Benzin", Seats: 5, Doors: 5, DailyPrice: 650,
			Features:  []string{"Klima", "Bluetooth", "USB"},
			Images:    []string{"https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?w=800"},
			Available: true, Km: 30000, BaggageCapacity: "Küçük", MinAge: 21, MinLicenseYears: 1, Deposit: 800, KmLimit: 300,
		},
		{
			ID: "v007", Brand: "Ford", Model: "Focus", Year: 2022, Plate: "34 *** 07", Color: "Mavi",
			Segment: "Orta", Transmission: "Otomatik", FuelType: "Dizel", Seats: 5, Doors: 5, DailyPrice: 950,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Park Sensörü"},
			Images:    []string{"https://images.unsplash.com/photo-1544636331-e26879cd4d9b?w=800"},
			Available: true, Km: 45000, BaggageCapacity: "Orta", MinAge: 21, MinLicenseYears: 1, Deposit: 1200, KmLimit: 300,
		},
		{
			ID: "v008", Brand: "Volkswagen", Model: "Transporter", Year: 2023, Plate: "34 *** 08", Color: "Beyaz",
			Segment: "Minivan", Transmission: "Manuel", FuelType: "Dizel", Seats: 9, Doors: 5, DailyPrice: 1800,
			Features:  []string{"Klima", "Bluetooth", "Geri Görüş Kamerası"},
			Images:    []string{"https://images.unsplash.com/photo-1559416523-140ddc3d238c?w=800"},
			Available: true, Km: 35000, BaggageCapacity: "Çok Büyük", MinAge: 25, MinLicenseYears: 3, Deposit: 3000, KmLimit: 400,
		},
		{
			ID: "v009", Brand: "Tesla", Model: "Model 3", Year: 2024, Plate: "34 *** 09", Color: "Beyaz",
			Segment: "Lüks", Transmission: "Otomatik", FuelType: "Elektrik", Seats: 5, Doors: 4, DailyPrice: 2200,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Autopilot", "Premium Ses", "Cam Tavan"},
			Images:    []string{"https://images.unsplash.com/photo-1560958089-b8a1929cea89?w=800"},
			Available: true, Km: 10000, BaggageCapacity: "Orta", MinAge: 25, MinLicenseYears: 3, Deposit: 4000, KmLimit: 350,
		},
		{
			ID: "v010", Brand: "Audi", Model: "Q5", Year: 2023, Plate: "34 *** 10", Color: "Siyah",
			Segment: "SUV", Transmission: "Otomatik", FuelType: "Dizel", Seats: 5, Doors: 5, DailyPrice: 2400,
			Features:  []string{"Klima", "Bluetooth", "Navigasyon", "Deri Koltuk", "Sunroof", "Bang & Olufsen", "Quattro"},
			Images:    []string{"https://images.unsplash.com/photo-1606664515524-ed2f786a0bd6?w=800"},
			Available: true, Km: 12000, BaggageCapacity: "Büyük", MinAge: 25, MinLicenseYears: 3, Deposit: 5000, KmLimit: 400,
		},
	}

	locations := []model.Location{
		{ID: "loc001", Name: "İstanbul Havalimanı", Address: "Arnavutköy, İstanbul", City: "İstanbul", Type: "airport", WorkingHours: "7/24"},
		{ID: "loc002", Name: "Sabiha Gökçen Havalimanı", Address: "Pendik, İstanbul", City: "İstanbul", Type: "airport", WorkingHours: "7/24"},
		{ID: "loc003", Name: "Taksim Ofis", Address: "Taksim Meydanı, Beyoğlu", City: "İstanbul", Type: "city", WorkingHours: "08:00-20:00"},
		{ID: "loc004", Name: "Kadıköy Ofis", Address: "Kadıköy İskele, Kadıköy", City: "İstanbul", Type: "city", WorkingHours: "08:00-20:00"},
		{ID: "loc005", Name: "Ankara Esenboğa Havalimanı", Address: "Esenboğa, Ankara", City: "Ankara", Type: "airport", WorkingHours: "7/24"},
		{ID: "loc006", Name: "Ankara Kızılay Ofis", Address: "Kızılay Meydanı, Çankaya", City: "Ankara", Type: "city", WorkingHours: "08:00-20:00"},
		{ID: "loc007", Name: "İzmir Adnan Menderes Havalimanı", Address: "Gaziemir, İzmir", City: "İzmir", Type: "airport", WorkingHours: "7/24"},
		{ID: "loc008", Name: "Antalya Havalimanı", Address: "Muratpaşa, Antalya", City: "Antalya", Type: "airport", WorkingHours: "7/24"},
	}

	day := 24 * time.Hour
	campaigns := []model.Campaign{
		{
			ID: "camp001", Title: "Yaz Fırsatı!", Description: "7 gün ve üzeri kiralamalarda %20 indirim",
			Image:           "https://images.unsplash.com/photo-1449965408869-eaa3f722e40d?w=800",
			DiscountPercent: 20, ValidUntil: now.Add(60 * day), Active: true,
		},
		{
			ID: "camp002", Title: "Hafta Sonu Özel", Description: "Cuma-Pazar kiralamalarda ek sürücü ücretsiz",
			Image:           "https://images.unsplash.com/photo-1503376780353-7e6692767b70?w=800",
			DiscountPercent: 0, ValidUntil: now.Add(30 * day), Active: true,
		},
		{
			ID: "camp003", Title: "İlk Kiralama", Description: "İlk kiralamanızda %15 indirim",
			Image:           "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?w=800",
			DiscountPercent: 15, ValidUntil: now.Add(90 * day), Active: true,
		},
	}
	return vehicles, locations, campaigns
}
