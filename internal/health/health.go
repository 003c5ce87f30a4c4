// Package health holds the closed-form health calculators: BMI, blood
// pressure, blood sugar, pulse rate and cholesterol ratio.
package health

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a calculator receives a non-positive or
// otherwise unusable measurement.
var ErrInvalidInput = errors.New("invalid input")

// BMIResult is a computed body-mass index with its category.
type BMIResult struct {
	Value    float64
	Category string
}

// BMI computes body-mass index from imperial units (pounds, feet, inches)
// using the standard x703 conversion factor, rounded to two decimals.
func BMI(weightLb, heightFt, heightIn float64) (BMIResult, error) {
	if weightLb <= 0 || heightFt < 0 || heightIn < 0 {
		return BMIResult{}, ErrInvalidInput
	}
	totalInches := heightFt*12 + heightIn
	if totalInches <= 0 {
		return BMIResult{}, ErrInvalidInput
	}

	value := math.Round(weightLb/(totalInches*totalInches)*703*100) / 100

	var category string
	switch {
	case value < 18.5:
		category = "Underweight"
	case value < 25:
		category = "Normal"
	case value <= 30:
		category = "Overweight"
	default:
		category = "Obese"
	}
	return BMIResult{Value: value, Category: category}, nil
}

// BloodPressureResult is a blood pressure classification with advice.
type BloodPressureResult struct {
	Result string
	Advice string
}

// BloodPressure classifies a systolic/diastolic reading in mmHg.
func BloodPressure(systolic, diastolic int) (BloodPressureResult, error) {
	if systolic <= 0 || diastolic <= 0 {
		return BloodPressureResult{}, ErrInvalidInput
	}
	switch {
	case systolic < 80 || diastolic < 60:
		return BloodPressureResult{"Low Blood Pressure", "Consult a healthcare provider."}, nil
	case systolic <= 129 && diastolic <= 80:
		return BloodPressureResult{"Normal", "Keep up a healthy lifestyle."}, nil
	case systolic <= 139 || diastolic <= 89:
		return BloodPressureResult{"High Normal", "Watch your lifestyle habits."}, nil
	case systolic <= 159 || diastolic <= 99:
		return BloodPressureResult{"Hypertension Stage 1", "Consult your doctor."}, nil
	case systolic <= 180 || diastolic <= 110:
		return BloodPressureResult{"Hypertension Stage 2", "Medical treatment likely required."}, nil
	default:
		return BloodPressureResult{"Hypertensive Crisis", "Seek emergency care immediately."}, nil
	}
}

// BloodSugar classifies a glucose level in mg/dL. fasting selects the
// fasting thresholds; otherwise the post-meal thresholds apply.
func BloodSugar(level float64, fasting bool) (string, error) {
	if level <= 0 {
		return "", ErrInvalidInput
	}
	if fasting {
		switch {
		case level < 70:
			return "Low (Hypoglycemia)", nil
		case level <= 99:
			return "Normal", nil
		case level <= 125:
			return "Pre-diabetes", nil
		default:
			return "Diabetes", nil
		}
	}
	switch {
	case level < 140:
		return "Normal", nil
	case level <= 199:
		return "Pre-diabetes", nil
	default:
		return "Diabetes", nil
	}
}

// PulseRate classifies a resting pulse in beats per minute.
func PulseRate(bpm int) (string, error) {
	if bpm <= 0 {
		return "", ErrInvalidInput
	}
	switch {
	case bpm < 60:
		return "Low Pulse Rate", nil
	case bpm > 100:
		return "High Pulse Rate", nil
	default:
		return "Normal Pulse Rate", nil
	}
}

// CholesterolRatio computes the total/HDL cholesterol ratio, formatted to
// two decimals as displayed to the user.
func CholesterolRatio(total, hdl float64) (string, error) {
	if total <= 0 || hdl <= 0 {
		return "", ErrInvalidInput
	}
	return fmt.Sprintf("%.2f", total/hdl), nil
}
