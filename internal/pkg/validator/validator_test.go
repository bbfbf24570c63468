package validator

import "testing"

type phoneForm struct {
	Phone string `json:"phone" validate:"required,pk_phone"`
}

func TestPKPhone(t *testing.T) {
	valid := []string{
		"03001234567",
		"0300 123 4567",
		"0300-123-4567",
		"+92 300 1234567",
		"(0300) 1234567",
	}
	for _, phone := range valid {
		if errs := Validate(&phoneForm{Phone: phone}); errs != nil {
			t.Errorf("expected %q to validate, got %v", phone, errs)
		}
	}

	invalid := []string{
		"123456789",   // too few digits
		"0300abc4567", // letters
		"",            // empty
	}
	for _, phone := range invalid {
		if errs := Validate(&phoneForm{Phone: phone}); errs == nil {
			t.Errorf("expected %q to be rejected", phone)
		}
	}
}

type networkForm struct {
	Network string `json:"network" validate:"required,network"`
}

func TestNetwork(t *testing.T) {
	for _, n := range []string{"telenor", "jazz", "zong", "ufone"} {
		if errs := Validate(&networkForm{Network: n}); errs != nil {
			t.Errorf("expected %q to validate, got %v", n, errs)
		}
	}

	if errs := Validate(&networkForm{Network: "warid"}); errs == nil {
		t.Error("expected unknown network to be rejected")
	}
	if errs := Validate(&networkForm{Network: "Jazz"}); errs == nil {
		t.Error("network match is case sensitive")
	}
}

type priceForm struct {
	Price string `json:"price" validate:"required,int_price"`
}

func TestIntPrice(t *testing.T) {
	for _, p := range []string{"2600", "0", "350"} {
		if errs := Validate(&priceForm{Price: p}); errs != nil {
			t.Errorf("expected %q to validate, got %v", p, errs)
		}
	}

	for _, p := range []string{"26.50", "-100", "Rs 2600", "abc", ""} {
		if errs := Validate(&priceForm{Price: p}); errs == nil {
			t.Errorf("expected %q to be rejected", p)
		}
	}
}

func TestValidateUsesJSONFieldNames(t *testing.T) {
	errs := Validate(&phoneForm{Phone: "x"})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs["phone"]; !ok {
		t.Fatalf("expected error keyed by json name, got %v", errs)
	}
}
