package get_schedule

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса сетки расписания
type Request struct {
	Date     time.Time // Первый день
	Days     int       // Количество дней, 1..31; 0 - один день
	StaffIDs []string  // Сотрудники; пусто - все активные
}

// Response сетка {сотрудник x слот -> бронирование или пусто} по дням
type Response struct {
	GranularityMinutes int           `json:"granularityMinutes"`
	Staff              []StaffColumn `json:"staff"`
	Days               []DaySchedule `json:"days"`
}

// StaffColumn колонка сетки
type StaffColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DaySchedule строки одного дня
type DaySchedule struct {
	Date string `json:"date"`
	Rows []Row  `json:"rows"`
}

// Row строка сетки [StartTime, EndTime); Cells в порядке Staff
type Row struct {
	StartTime types.TimeString `json:"startTime"`
	EndTime   types.TimeString `json:"endTime"`
	Cells     []Cell           `json:"cells"`
}

// Cell ячейка сетки
type Cell struct {
	Working bool        `json:"working"`
	Booking *BookingRef `json:"booking,omitempty"`
}

// BookingRef бронирование, занимающее ячейку
type BookingRef struct {
	ID           string               `json:"id"`
	Status       domain.BookingStatus `json:"status"`
	CustomerID   string               `json:"customerId"`
	CustomerName *string              `json:"customerName,omitempty"`
	ServiceName  string               `json:"serviceName"`
	StartTime    types.TimeString     `json:"startTime"`
	EndTime      types.TimeString     `json:"endTime"`
	IsStart      bool                 `json:"isStart"` // Первая строка бронирования в колонке
}
