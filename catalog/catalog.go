// backend/catalog/catalog.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/seaviz/maritime/backend/models"
)

// The two rename tables below map every raw header label the MAN archives
// use (parenthetical units and all) onto a canonical snake_case field
// name. Labels not present in a table pass through unchanged so a new
// upstream column never fails ingestion.

var aodDict = map[string]string{
	"Date(dd:mm:yyyy)":                "date",
	"Time(hh:mm:ss)":                  "time",
	"Air Mass":                        "air_mass",
	"AOD_340nm":                       "aod_340nm",
	"AOD_380nm":                       "aod_380nm",
	"AOD_440nm":                       "aod_440nm",
	"AOD_500nm":                       "aod_500nm",
	"AOD_675nm":                       "aod_675nm",
	"AOD_870nm":                       "aod_870nm",
	"AOD_1020nm":                      "aod_1020nm",
	"AOD_1640nm":                      "aod_1640nm",
	"Water Vapor(cm)":                 "water_vapor_cm",
	"440-870nm_Angstrom_Exponent":     "angstrom_exponent_440_870",
	"STD_340nm":                       "std_340nm",
	"STD_380nm":                       "std_380nm",
	"STD_440nm":                       "std_440nm",
	"STD_500nm":                       "std_500nm",
	"STD_675nm":                       "std_675nm",
	"STD_870nm":                       "std_870nm",
	"STD_1020nm":                      "std_1020nm",
	"STD_1640nm":                      "std_1640nm",
	"STD_Water_Vapor(cm)":             "std_water_vapor_cm",
	"STD_440-870nm_Angstrom_Exponent": "std_angstrom_exponent_440_870",
	"Number_of_Observations":          "number_of_observations",
	"Last_Processing_Date(dd:mm:yyyy)": "last_processing_date",
	"AERONET_Number":                  "aeronet_number",
	"Microtops_Number":                "microtops_number",
}

var sdaDict = map[string]string{
	"Date(dd:mm:yyyy)": "date",
	"Time(hh:mm:ss)":   "time",
	"Julian_Day":       "julian_day",
	"Air_Mass":         "air_mass",
	"Total_AOD_500nm(tau_a)":            "total_aod_500nm",
	"Fine_Mode_AOD_500nm(tau_f)":        "fine_mode_aod_500nm",
	"Coarse_Mode_AOD_500nm(tau_c)":      "coarse_mode_aod_500nm",
	"FineModeFraction_500nm(eta)":       "fine_mode_fraction_500nm",
	"CoarseModeFraction_500nm(1_eta)":   "coarse_mode_fraction_500nm",
	"2nd_Order_Reg_Fit_Error_Total_AOD_500nm(regression_dtau_a)": "regression_dtau_a",
	"RMSE_Fine_Mode_AOD_500nm(Dtau_f)":              "rmse_fine_mode_aod_500nm",
	"RMSE_Coarse_Mode_AOD_500nm(Dtau_c)":            "rmse_coarse_mode_aod_500nm",
	"RMSE_FMF_and_CMF_Fractions_500nm(Deta)":        "rmse_fmf_and_cmf_fractions_500nm",
	"Angstrom_Exponent(AE)_Total_500nm(alpha)":      "angstrom_exponent_total_500nm",
	"dAE/dln(wavelength)_Total_500nm(alphap)":       "dae_dln_wavelength_total_500nm",
	"AE_Fine_Mode_500nm(alpha_f)":                   "ae_fine_mode_500nm",
	"dAE/dln(wavelength)_Fine_Mode_500nm(alphap_f)": "dae_dln_wavelength_fine_mode_500nm",
	"870nm_Input_AOD": "aod_870nm",
	"675nm_Input_AOD": "aod_675nm",
	"500nm_Input_AOD": "aod_500nm",
	"440nm_Input_AOD": "aod_440nm",
	"380nm_Input_AOD": "aod_380nm",
	"STDEV-Total_AOD_500nm(tau_a)":          "stdev_total_aod_500nm",
	"STDEV-Fine_Mode_AOD_500nm(tau_f)":      "stdev_fine_mode_aod_500nm",
	"STDEV-Coarse_Mode_AOD_500nm(tau_c)":    "stdev_coarse_mode_aod_500nm",
	"STDEV-FineModeFraction_500nm(eta)":     "stdev_fine_mode_fraction_500nm",
	"STDEV-CoarseModeFraction_500nm(1_eta)": "stdev_coarse_mode_fraction_500nm",
	"STDEV-2nd_Order_Reg_Fit_Error_Total_AOD_500nm(regression_dtau_a)": "stdev_regression_dtau_a",
	"STDEV-RMSE_Fine_Mode_AOD_500nm(Dtau_f)":              "stdev_rmse_fine_mode_aod_500nm",
	"STDEV-RMSE_Coarse_Mode_AOD_500nm(Dtau_c)":            "stdev_rmse_coarse_mode_aod_500nm",
	"STDEV-RMSE_FMF_and_CMF_Fractions_500nm(Deta)":        "stdev_rmse_fmf_and_cmf_fractions_500nm",
	"STDEV-Angstrom_Exponent(AE)_Total_500nm(alpha)":      "stdev_angstrom_exponent_total_500nm",
	"STDEV-dAE/dln(wavelength)_Total_500nm(alphap)":       "stdev_dae_dln_wavelength_total_500nm",
	"STDEV-AE_Fine_Mode_500nm(alpha_f)":                   "stdev_ae_fine_mode_500nm",
	"STDEV-dAE/dln(wavelength)_Fine_Mode_500nm(alphap_f)": "stdev_dae_dln_wavelength_fine_mode_500nm",
	"STDEV-870nm_Input_AOD": "stdev_aod_870nm",
	"STDEV-675nm_Input_AOD": "stdev_aod_675nm",
	"STDEV-500nm_Input_AOD": "stdev_aod_500nm",
	"Solar_Zenith_Angle":    "solar_zenith_angle",
	"STDEV-440nm_Input_AOD": "stdev_aod_440nm",
	"STDEV-380nm_Input_AOD": "stdev_aod_380nm",
	"Number_of_Observations": "number_of_observations",
	"Last_Processing_Date(dd:mm:yyyy)":    "last_processing_date",
	"AERONET_Number":                      "aeronet_number",
	"Microtops_Number":                    "microtops_number",
	"Number_of_Wavelengths":               "number_of_wavelengths",
	"Exact_Wavelengths_for_Input_AOD(um)": "exact_wavelengths_for_input_aod",
}

var (
	aodReverse = reverse(aodDict)
	sdaReverse = reverse(sdaDict)
)

func reverse(dict map[string]string) map[string]string {
	out := make(map[string]string, len(dict))
	for raw, canonical := range dict {
		out[canonical] = raw
	}
	return out
}

// intSuffix is the spurious annotation some archive headers carry on
// integer-precision channels (e.g. "AOD_500nm(int)").
const intSuffix = "(int)"

// StripAnnotation removes the "(int)" annotation from a raw header label.
func StripAnnotation(label string) string {
	return strings.ReplaceAll(label, intSuffix, "")
}

// Rename maps a raw header label to its canonical field name for the
// given retrieval kind. The "(int)" annotation is stripped before lookup
// and unmapped labels pass through unchanged.
func Rename(kind models.Retrieval, label string) string {
	label = StripAnnotation(label)
	dict := aodDict
	if kind == models.RetrievalSDA {
		dict = sdaDict
	}
	if canonical, ok := dict[label]; ok {
		return canonical
	}
	return label
}

// RawLabel maps a canonical field name back to the raw header label used
// in the archive format; used when reconstructing export files. Unknown
// names pass through, mirroring Rename.
func RawLabel(kind models.Retrieval, canonical string) string {
	rev := aodReverse
	if kind == models.RetrievalSDA {
		rev = sdaReverse
	}
	if raw, ok := rev[canonical]; ok {
		return raw
	}
	return canonical
}

// Variant identifies one of the six canonical record shapes.
type Variant struct {
	Retrieval models.Retrieval
	Frequency models.Frequency
}

func (v Variant) String() string {
	return string(v.Retrieval) + "/" + string(v.Frequency)
}

// Ordered canonical field lists per variant. Latitude and longitude are
// not listed: the normalizer folds them into the geographic point.

var aodPointFields = []string{
	"date", "time", "air_mass",
	"aod_340nm", "aod_380nm", "aod_440nm", "aod_500nm",
	"aod_675nm", "aod_870nm", "aod_1020nm", "aod_1640nm",
	"water_vapor_cm", "angstrom_exponent_440_870",
	"last_processing_date", "aeronet_number", "microtops_number",
}

var aodSeriesFields = []string{
	"date", "time", "air_mass",
	"aod_340nm", "aod_380nm", "aod_440nm", "aod_500nm",
	"aod_675nm", "aod_870nm", "aod_1020nm", "aod_1640nm",
	"water_vapor_cm", "angstrom_exponent_440_870",
	"std_340nm", "std_380nm", "std_440nm", "std_500nm",
	"std_675nm", "std_870nm", "std_1020nm", "std_1640nm",
	"std_water_vapor_cm", "std_angstrom_exponent_440_870",
	"number_of_observations",
	"last_processing_date", "aeronet_number", "microtops_number",
}

var sdaPointFields = []string{
	"date", "time", "julian_day", "air_mass",
	"total_aod_500nm", "fine_mode_aod_500nm", "coarse_mode_aod_500nm",
	"fine_mode_fraction_500nm", "coarse_mode_fraction_500nm",
	"regression_dtau_a",
	"rmse_fine_mode_aod_500nm", "rmse_coarse_mode_aod_500nm",
	"rmse_fmf_and_cmf_fractions_500nm",
	"angstrom_exponent_total_500nm", "dae_dln_wavelength_total_500nm",
	"ae_fine_mode_500nm", "dae_dln_wavelength_fine_mode_500nm",
	"solar_zenith_angle",
	"aod_870nm", "aod_675nm", "aod_500nm", "aod_440nm", "aod_380nm",
	"last_processing_date", "aeronet_number", "microtops_number",
	"number_of_wavelengths", "exact_wavelengths_for_input_aod",
}

var sdaSeriesFields = []string{
	"date", "time", "julian_day", "air_mass",
	"total_aod_500nm", "fine_mode_aod_500nm", "coarse_mode_aod_500nm",
	"fine_mode_fraction_500nm", "coarse_mode_fraction_500nm",
	"regression_dtau_a",
	"rmse_fine_mode_aod_500nm", "rmse_coarse_mode_aod_500nm",
	"rmse_fmf_and_cmf_fractions_500nm",
	"angstrom_exponent_total_500nm", "dae_dln_wavelength_total_500nm",
	"ae_fine_mode_500nm", "dae_dln_wavelength_fine_mode_500nm",
	"aod_870nm", "aod_675nm", "aod_500nm", "aod_440nm", "aod_380nm",
	"stdev_total_aod_500nm", "stdev_fine_mode_aod_500nm",
	"stdev_coarse_mode_aod_500nm",
	"stdev_fine_mode_fraction_500nm", "stdev_coarse_mode_fraction_500nm",
	"stdev_regression_dtau_a",
	"stdev_rmse_fine_mode_aod_500nm", "stdev_rmse_coarse_mode_aod_500nm",
	"stdev_rmse_fmf_and_cmf_fractions_500nm",
	"stdev_angstrom_exponent_total_500nm",
	"stdev_dae_dln_wavelength_total_500nm",
	"stdev_ae_fine_mode_500nm", "stdev_dae_dln_wavelength_fine_mode_500nm",
	// Solar_Zenith_Angle sits inside the STDEV block in the archive
	// header; the ordering is kept as published.
	"stdev_aod_870nm", "stdev_aod_675nm", "stdev_aod_500nm",
	"solar_zenith_angle",
	"stdev_aod_440nm", "stdev_aod_380nm",
	"number_of_observations",
	"last_processing_date", "aeronet_number", "microtops_number",
	"number_of_wavelengths", "exact_wavelengths_for_input_aod",
}

type variantInfo struct {
	fields []string
	table  string
	stem   string
}

var variants = map[Variant]variantInfo{
	{models.RetrievalAOD, models.FrequencyPoint}:  {aodPointFields, "man_aod_point", "MAN_DATASET_AOD_POINT"},
	{models.RetrievalAOD, models.FrequencySeries}: {aodSeriesFields, "man_aod_series", "MAN_DATASET_AOD_SERIES"},
	{models.RetrievalAOD, models.FrequencyDaily}:  {aodSeriesFields, "man_aod_daily", "MAN_DATASET_AOD_DAILY"},
	{models.RetrievalSDA, models.FrequencyPoint}:  {sdaPointFields, "man_sda_point", "MAN_DATASET_SDA_POINT"},
	{models.RetrievalSDA, models.FrequencySeries}: {sdaSeriesFields, "man_sda_series", "MAN_DATASET_SDA_SERIES"},
	{models.RetrievalSDA, models.FrequencyDaily}:  {sdaSeriesFields, "man_sda_daily", "MAN_DATASET_SDA_DAILY"},
}

// Fields returns the ordered canonical field list for the variant.
func (v Variant) Fields() []string {
	return variants[v].fields
}

// Table is the measurement table backing the variant.
func (v Variant) Table() string {
	return variants[v].table
}

// FileStem is the export filename prefix; the quality level digits are
// appended at export time (MAN_DATASET_AOD_DAILY15.csv).
func (v Variant) FileStem() string {
	return variants[v].stem
}

// typedFields are stored in dedicated typed columns rather than the text
// payload.
var typedFields = map[string]bool{
	"date":                 true,
	"time":                 true,
	"last_processing_date": true,
}

// PayloadFields returns the variant fields persisted as text columns,
// i.e. everything except the typed date/time columns.
func (v Variant) PayloadFields() []string {
	var out []string
	for _, f := range v.Fields() {
		if !typedFields[f] {
			out = append(out, f)
		}
	}
	return out
}

// Variants enumerates all six shapes in a stable order.
func Variants() []Variant {
	return []Variant{
		{models.RetrievalAOD, models.FrequencyPoint},
		{models.RetrievalAOD, models.FrequencySeries},
		{models.RetrievalAOD, models.FrequencyDaily},
		{models.RetrievalSDA, models.FrequencyPoint},
		{models.RetrievalSDA, models.FrequencySeries},
		{models.RetrievalSDA, models.FrequencyDaily},
	}
}

// Lookup resolves a retrieval/frequency pair from request strings.
func Lookup(retrieval, frequency string) (Variant, error) {
	v := Variant{models.Retrieval(retrieval), models.Frequency(frequency)}
	if _, ok := variants[v]; !ok {
		return Variant{}, fmt.Errorf("unknown variant %s/%s", retrieval, frequency)
	}
	return v, nil
}

// DisplayFields lists the numeric reading columns of the daily AOD set,
// which the frontend offers as overlay options.
func DisplayFields() []string {
	skip := map[string]bool{
		"date": true, "time": true,
		"number_of_observations": true,
		"last_processing_date":   true,
		"aeronet_number":         true,
		"microtops_number":       true,
	}
	var out []string
	for _, f := range aodSeriesFields {
		if !skip[f] {
			out = append(out, f)
		}
	}
	return out
}
