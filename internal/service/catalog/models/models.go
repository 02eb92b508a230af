package models

import (
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// IntervalResponse рабочий интервал [start, end)
type IntervalResponse struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "17:00"
}

// StaffResponse сотрудник с рабочими часами по дням недели
type StaffResponse struct {
	ID           string                        `json:"id"`
	Name         string                        `json:"name"`
	IsActive     bool                          `json:"isActive"`
	WorkingHours map[string][]IntervalResponse `json:"workingHours"` // "monday" -> интервалы
}

// StaffListResponse ответ со списком сотрудников
type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// ServiceResponse услуга каталога
type ServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"isActive"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainStaffList конвертирует сотрудников в DTO
func FromDomainStaffList(staff []*domain.StaffMember) *StaffListResponse {
	resp := &StaffListResponse{Staff: make([]StaffResponse, 0, len(staff))}
	for _, s := range staff {
		hours := make(map[string][]IntervalResponse, len(s.WorkingHours))
		for day := time.Sunday; day <= time.Saturday; day++ {
			intervals := append([]domain.TimeRange(nil), s.WorkingHours[day]...)
			if len(intervals) == 0 {
				continue
			}
			sort.Slice(intervals, func(i, j int) bool {
				return intervals[i].Start.IsBefore(intervals[j].Start)
			})
			items := make([]IntervalResponse, 0, len(intervals))
			for _, interval := range intervals {
				items = append(items, IntervalResponse{Start: interval.Start.String(), End: interval.End.String()})
			}
			hours[strings.ToLower(day.String())] = items
		}
		resp.Staff = append(resp.Staff, StaffResponse{
			ID:           s.ID,
			Name:         s.Name,
			IsActive:     s.IsActive,
			WorkingHours: hours,
		})
	}
	return resp
}

// FromDomainServiceList конвертирует услуги в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
			IsActive:        s.IsActive,
		})
	}
	return resp
}
