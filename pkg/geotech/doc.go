// Package geotech interprets parsed site-investigation data: weathering
// grades, rock material criteria, rockhead scans, rock-mass quality
// indices, and keyword classification of soil descriptions.
//
// The package sits on top of borelog. Profiles built there feed the
// rockhead Service, which tags every elementary interval as rock material
// or not and scans for the shallowest sustained run of rock.
//
// # Weathering Grades
//
// Material decomposition follows the six-grade scheme, grade I (fresh) to
// grade VI (residual soil). GradeNumeric maps grades onto numbers so they
// can be compared: split grades such as III/IV land halfway between their
// neighbours. Cells that are not grades, including the NI marker for "not
// inspected", do not map and never qualify as rock.
//
// # Rockhead
//
// Rockhead is the boundary between superficial deposits and in-situ rock.
// Service.Rockhead calls it at the top of the first continuous run of rock
// material, at least MinRunLength thick, whose core recovery holds at or
// above Threshold. Weak-zone intervals and no-recovery flags interrupt
// runs unless configured otherwise. RockheadByDescription offers a cruder
// reading that keys off rock names in the description text instead.
//
// # Dictionaries
//
// The keyword tables driving classification ship with defaults tuned to
// Hong Kong survey conventions and can be replaced wholesale from a TOML
// file. Soil-type matching is order sensitive: the last matching keyword
// wins, so generic tokens belong before specific ones.
package geotech
