package population

// Mid-year estimates, rounded.
var countries = []Country{
	{Code: "IN", Name: "India", Continent: Asia, Population: 1428627663, Year: 2023, GrowthRate: 0.81},
	{Code: "CN", Name: "China", Continent: Asia, Population: 1425671352, Year: 2023, GrowthRate: -0.02},
	{Code: "US", Name: "United States", Continent: NorthAmerica, Population: 339996563, Year: 2023, GrowthRate: 0.50},
	{Code: "ID", Name: "Indonesia", Continent: Asia, Population: 277534122, Year: 2023, GrowthRate: 0.74},
	{Code: "PK", Name: "Pakistan", Continent: Asia, Population: 240485658, Year: 2023, GrowthRate: 1.98},
	{Code: "NG", Name: "Nigeria", Continent: Africa, Population: 223804632, Year: 2023, GrowthRate: 2.41},
	{Code: "BR", Name: "Brazil", Continent: SouthAmerica, Population: 216422446, Year: 2023, GrowthRate: 0.52},
	{Code: "BD", Name: "Bangladesh", Continent: Asia, Population: 172954319, Year: 2023, GrowthRate: 1.03},
	{Code: "RU", Name: "Russia", Continent: Europe, Population: 144444359, Year: 2023, GrowthRate: -0.19},
	{Code: "MX", Name: "Mexico", Continent: NorthAmerica, Population: 128455567, Year: 2023, GrowthRate: 0.75},
	{Code: "ET", Name: "Ethiopia", Continent: Africa, Population: 126527060, Year: 2023, GrowthRate: 2.57},
	{Code: "JP", Name: "Japan", Continent: Asia, Population: 123294513, Year: 2023, GrowthRate: -0.53},
	{Code: "EG", Name: "Egypt", Continent: Africa, Population: 112716598, Year: 2023, GrowthRate: 1.56},
	{Code: "DE", Name: "Germany", Continent: Europe, Population: 83294633, Year: 2023, GrowthRate: -0.09},
	{Code: "GB", Name: "United Kingdom", Continent: Europe, Population: 67736802, Year: 2023, GrowthRate: 0.34},
	{Code: "FR", Name: "France", Continent: Europe, Population: 64756584, Year: 2023, GrowthRate: 0.20},
	{Code: "IT", Name: "Italy", Continent: Europe, Population: 58870762, Year: 2023, GrowthRate: -0.28},
	{Code: "CO", Name: "Colombia", Continent: SouthAmerica, Population: 52085168, Year: 2023, GrowthRate: 0.41},
	{Code: "AR", Name: "Argentina", Continent: SouthAmerica, Population: 45773884, Year: 2023, GrowthRate: 0.58},
	{Code: "CA", Name: "Canada", Continent: NorthAmerica, Population: 38781291, Year: 2023, GrowthRate: 0.85},
	{Code: "AU", Name: "Australia", Continent: Oceania, Population: 26439111, Year: 2023, GrowthRate: 0.99},
	{Code: "PG", Name: "Papua New Guinea", Continent: Oceania, Population: 10329931, Year: 2023, GrowthRate: 1.91},
	{Code: "NZ", Name: "New Zealand", Continent: Oceania, Population: 5228100, Year: 2023, GrowthRate: 0.79},
}

var globalTrend = []YearPopulation{
	{Year: 1950, Population: 2499322157, GrowthRate: 1.73},
	{Year: 1960, Population: 3019233434, GrowthRate: 1.34},
	{Year: 1970, Population: 3695390336, GrowthRate: 2.09},
	{Year: 1980, Population: 4444007706, GrowthRate: 1.79},
	{Year: 1990, Population: 5316175862, GrowthRate: 1.81},
	{Year: 2000, Population: 6148898975, GrowthRate: 1.35},
	{Year: 2010, Population: 6985603105, GrowthRate: 1.24},
	{Year: 2015, Population: 7426597537, GrowthRate: 1.16},
	{Year: 2020, Population: 7840952880, GrowthRate: 0.98},
	{Year: 2021, Population: 7909295151, GrowthRate: 0.87},
	{Year: 2022, Population: 7975105156, GrowthRate: 0.83},
	{Year: 2023, Population: 8045311447, GrowthRate: 0.88},
}
