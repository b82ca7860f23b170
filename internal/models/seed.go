package models

// SeedAgents returns the brokerage's default agents.
func SeedAgents() []Agent {
	return []Agent{
		{ID: "1", Name: "Parth Chauhan", Color: "bg-red-500", Phone: "+91 9313759966"},
		{ID: "2", Name: "Nency Chauhan", Color: "bg-green-500", Phone: "+91 9713895675"},
		{ID: "3", Name: "Chirag Mehta", Color: "bg-purple-500", Phone: "+91 98765 43210"},
		{ID: "4", Name: "Nirali Shah", Color: "bg-orange-500", Phone: "+91 96874 53656"},
	}
}

// SeedProperties returns the default listings.
func SeedProperties() []Property {
	return []Property{
		{ID: "1", Address: "12 Shivalik Residency, Science City Road, Ahmedabad", Type: PropertyApartment, Price: "₹45,00,000"},
		{ID: "2", Address: "108 Green Meadows, Gotri Road, Vadodara", Type: PropertyHouse, Price: "₹75,00,000"},
		{ID: "3", Address: "9 Sun Residency, Pal Road, Surat", Type: PropertyCondo, Price: "₹32,00,000"},
		{ID: "4", Address: "32 Sardar Park, Kalawad Road, Rajkot", Type: PropertyTownhouse, Price: "₹58,00,000"},
	}
}

// SeedAppointments returns demo viewings, in insertion order.
func SeedAppointments() []Appointment {
	return []Appointment{
		{
			BaseModel:   BaseModel{ID: "1"},
			Title:       "Property Viewing",
			Date:        "2025-01-15",
			Time:        "10:00",
			Duration:    60,
			AgentID:     "1",
			PropertyID:  "1",
			ClientName:  "Alpesh Patel",
			ClientPhone: "+91 98765 43210",
			Status:      StatusScheduled,
			Notes:       "First-time buyer, interested in 2BHK near Science City, Ahmedabad",
		},
		{
			BaseModel:   BaseModel{ID: "2"},
			Title:       "House Tour",
			Date:        "2025-01-15",
			Time:        "14:00",
			Duration:    90,
			AgentID:     "2",
			PropertyID:  "2",
			ClientName:  "Pravin Desai",
			ClientPhone: "+91 98250 12345",
			Status:      StatusConfirmed,
			Notes:       "Looking for a 3BHK bungalow in Anand with nearby schools",
		},
		{
			BaseModel:   BaseModel{ID: "3"},
			Title:       "Condo Viewing",
			Date:        "2025-01-16",
			Time:        "11:30",
			Duration:    45,
			AgentID:     "3",
			PropertyID:  "3",
			ClientName:  "Kiranben Shah",
			ClientPhone: "+91 90990 11223",
			Status:      StatusScheduled,
			Notes:       "Investor from Surat, interested in rental flats near Pal area",
		},
	}
}
