package domain

import "time"

type DashboardSummary struct {
	TotalLeads     int            `json:"totalLeads"`
	ConversionRate float64        `json:"conversionRate"`
	TotalVisits    int            `json:"totalVisits"`
	LeadsByCity    map[string]int `json:"leadsByCity,omitempty"`
	LeadsByDay     []DailyCount   `json:"leadsByDay,omitempty"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type AdminLead struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	City           string    `json:"city"`
	MonthlyIncome  float64   `json:"monthlyIncome"`
	EmploymentType string    `json:"employmentType"`
	LoanAmount     float64   `json:"loanAmount"`
	SourcePage     string    `json:"sourcePage"`
	LenderName     string    `json:"lenderName,omitempty"`
	Status         string    `json:"status,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LeadPage struct {
	Leads []AdminLead `json:"leads"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
}

type UserSyncRequest struct {
	IDToken     string `json:"idToken"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role,omitempty"`
}
