package employee

type OnboardEmployeeRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=2,max=50"`
	LastName    string `json:"last_name" binding:"required,min=2,max=50"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`

	Street    string `json:"street" binding:"required,max=100"`
	City      string `json:"city" binding:"required,max=50"`
	Region    string `json:"region" binding:"required,max=50"`
	Country   string `json:"country" binding:"max=50"`
	ZipCode   string `json:"zip_code" binding:"required,max=10"`
	Block     string `json:"block" binding:"max=10"`
	Building  string `json:"building" binding:"max=10"`
	Apartment string `json:"apartment" binding:"max=10"`
	Floor     int    `json:"floor"`

	Email    string `json:"email" binding:"required,email,max=100"`
	HireDate string `json:"hire_date" binding:"required"`
	JobID    string `json:"job_id" binding:"required,max=10"`
	Salary   int    `json:"salary" binding:"min=0"`

	// Optional; an unresolvable id degrades to "no manager" rather than
	// failing the request.
	ManagerID string `json:"manager_id"`
}

type SearchEmployeesRequest struct {
	Name string `form:"name" binding:"required,min=3"`
	Page int    `form:"page,default=0" binding:"min=0"`
	Size int    `form:"size,default=10" binding:"min=1,max=100"`
}

type AddressResponse struct {
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country,omitempty"`
	ZipCode   string `json:"zip_code"`
	Block     string `json:"block,omitempty"`
	Building  string `json:"building,omitempty"`
	Apartment string `json:"apartment,omitempty"`
	Floor     int    `json:"floor,omitempty"`
}

type JobInfoResponse struct {
	Email     string  `json:"email"`
	HireDate  string  `json:"hire_date"`
	JobID     string  `json:"job_id"`
	Salary    int     `json:"salary"`
	ManagerID *string `json:"manager_id,omitempty"`
}

type EmployeeResponse struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   string          `json:"phone_number"`
	Address       AddressResponse `json:"address"`
	JobInfo       JobInfoResponse `json:"job_info"`
	LeaveBalances map[string]int  `json:"leave_balances"`
}
