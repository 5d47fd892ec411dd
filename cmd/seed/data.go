package main

type seedUser struct {
	Username   string
	Email      string
	Name       string
	Role       string
	Phone      string
	Department string
}

type seedCategory struct {
	Name        string
	Description string
}

type seedRequest struct {
	OwnerEmail string
	Category   string
	Title      string
	Desc       string
	Location   string
	Urgency    string
	Status     string
}

var users = []seedUser{
	{"admin", "admin@volunteer.local", "Site Administrator", "admin", "", "Operations"},
	{"pm1", "manager@volunteer.local", "Priya Manager", "platform_manager", "", "Programs"},
	{"csr1", "csr1@volunteer.local", "Sam Rivera", "csr_rep", "555-0101", "Logistics"},
	{"csr2", "csr2@volunteer.local", "Alex Chen", "csr_rep", "555-0102", "Finance"},
	{"pin1", "pin1@volunteer.local", "Jordan Lee", "pin", "555-0201", ""},
	{"pin2", "pin2@volunteer.local", "Morgan Blake", "pin", "555-0202", ""},
}

var categories = []seedCategory{
	{"Groceries", "Shopping and delivery of food and essentials"},
	{"Transport", "Rides to appointments and errands"},
	{"Companionship", "Visits, calls and social support"},
	{"Home Repair", "Small fixes around the house"},
	{"Technology", "Help with phones, computers and online services"},
	{"Medical Support", "Pharmacy pickups and appointment help"},
}

var requests = []seedRequest{
	{"pin1@volunteer.local", "Groceries", "Weekly grocery run", "Need help picking up groceries on Saturdays.", "Downtown", "medium", "open"},
	{"pin1@volunteer.local", "Transport", "Ride to clinic", "Appointment at 10am on Tuesday.", "Northside", "high", "open"},
	{"pin2@volunteer.local", "Technology", "Set up video calls", "Want to call my grandchildren on a tablet.", "Riverside", "low", "open"},
	{"pin2@volunteer.local", "Home Repair", "Fix leaking tap", "Kitchen tap has been dripping for a week.", "Riverside", "medium", "open"},
}
