package data

import "strconv"

// PassengerHeader is the column layout of the Titanic CSV files, label included.
var PassengerHeader = []string{"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age", "SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked"}

type Passenger struct {
	PassengerID int      `json:"PassengerId" binding:"required"`
	Survived    *int     `json:"Survived,omitempty" binding:"omitempty,oneof=0 1"`
	Pclass      int      `json:"Pclass" binding:"required,oneof=1 2 3"`
	Name        string   `json:"Name"`
	Sex         string   `json:"Sex" binding:"required,oneof=male female"`
	Age         *float64 `json:"Age" binding:"omitempty,gte=0"`
	SibSp       int      `json:"SibSp" binding:"gte=0"`
	Parch       int      `json:"Parch" binding:"gte=0"`
	Ticket      string   `json:"Ticket"`
	Fare        *float64 `json:"Fare" binding:"omitempty,gte=0"`
	Cabin       string   `json:"Cabin"`
	Embarked    string   `json:"Embarked" binding:"omitempty,oneof=C Q S"`
}

// Record renders p following PassengerHeader. Nil pointers become empty cells.
func (p Passenger) Record() []string {
	survived := ""
	if p.Survived != nil {
		survived = strconv.Itoa(*p.Survived)
	}
	return []string{
		strconv.Itoa(p.PassengerID),
		survived,
		strconv.Itoa(p.Pclass),
		p.Name,
		p.Sex,
		formatOptional(p.Age),
		strconv.Itoa(p.SibSp),
		strconv.Itoa(p.Parch),
		p.Ticket,
		formatOptional(p.Fare),
		p.Cabin,
		p.Embarked,
	}
}

// PassengerTable builds a raw table out of decoded passengers. The Survived
// column is only emitted when every passenger carries a label.
func PassengerTable(ps []Passenger) *Table {
	labelled := len(ps) > 0
	for _, p := range ps {
		if p.Survived == nil {
			labelled = false
			break
		}
	}
	header := PassengerHeader
	if !labelled {
		header = withoutColumn(PassengerHeader, "Survived")
	}
	t := &Table{Header: append([]string(nil), header...), Rows: make([][]string, 0, len(ps))}
	for _, p := range ps {
		rec := p.Record()
		if !labelled {
			rec = append(rec[:1:1], rec[2:]...)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func withoutColumn(header []string, name string) []string {
	out := make([]string, 0, len(header))
	for _, h := range header {
		if h != name {
			out = append(out, h)
		}
	}
	return out
}
