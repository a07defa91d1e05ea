package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Pratiksahu04/TelanganaDataViz/internal/api"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/boundary"
	"github.com/Pratiksahu04/TelanganaDataViz/internal/selection"
)

var (
	districtsDetail bool
	locateLat       float64
	locateLng       float64
)

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List canonical district names in boundary order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := loadBoundarySet(cmd.Context())
		if err != nil {
			return err
		}

		if !districtsDetail {
			for _, name := range set.AllDistrictNames() {
				fmt.Println(name)
			}
			return nil
		}

		type detail struct {
			Name     string         `json:"name"`
			BBox     boundary.BBox  `json:"bbox"`
			Centroid boundary.Point `json:"centroid"`
		}
		var out []detail
		for _, name := range set.AllDistrictNames() {
			bbox, _ := set.BoundingBox(name)
			c, _ := set.Centroid(name)
			out = append(out, detail{Name: name, BBox: bbox, Centroid: c})
		}
		return printJSON(out)
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the district containing a point",
	Example: `  districtviz locate --lat 17.385 --lng 78.487`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		set, err := loadBoundarySet(cmd.Context())
		if err != nil {
			return err
		}

		name, ok := selection.New(set).SelectFromPoint(locateLat, locateLng)
		out := map[string]any{"lat": locateLat, "lng": locateLng, "found": ok}
		if ok {
			out["district"] = name
		}
		return printJSON(out)
	},
}

var distanceCmd = &cobra.Command{
	Use:     "distance FROM TO",
	Short:   "Great-circle distance between two district centroids",
	Args:    cobra.ExactArgs(2),
	Example: `  districtviz distance Hyderabad Nalgonda`,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadBoundarySet(cmd.Context())
		if err != nil {
			return err
		}

		km, ok := selection.New(set).DistanceBetween(args[0], args[1])
		if !ok {
			return eris.Errorf("distance: unknown district in %q, %q", args[0], args[1])
		}
		return printJSON(map[string]any{
			"from":        args[0],
			"to":          args[1],
			"distance_km": km,
			"zoom":        api.ZoomForDistance(km),
		})
	},
}

func init() {
	districtsCmd.Flags().BoolVar(&districtsDetail, "detail", false, "print bounding box and centroid as JSON")
	locateCmd.Flags().Float64Var(&locateLat, "lat", 0, "latitude in decimal degrees")
	locateCmd.Flags().Float64Var(&locateLng, "lng", 0, "longitude in decimal degrees")
	_ = locateCmd.MarkFlagRequired("lat")
	_ = locateCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(districtsCmd, locateCmd, distanceCmd)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}
