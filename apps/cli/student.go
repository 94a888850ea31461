package main

import (
	"context"
	"flag"
	"strconv"
	"text/tabwriter"

	"github.com/trezcool/attendance/core/student"
)

func (cli *commandLine) studentUsage() {
	cli.println("Usage:")
	cli.println("  student add -name NAME -roll ROLL -class CLASS -gender GENDER -dob dd-MM-yyyy [details]")
	cli.println("  student edit -id ID [details] [-remove-image]")
	cli.println("  student list [-search TEXT] [-class CLASS] [-gender GENDER]")
	cli.println("  student show -id ID")
	cli.println("  student delete -id ID[,ID...] | -all")
	cli.println("  student export [-id ID]            - spreadsheet of all students, or the PDF profile of one")
}

func (cli *commandLine) studentCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.studentUsage()
		return errHelp
	}
	switch args[0] {
	case "add":
		return cli.addStudent(ctx, args[1:])
	case "edit":
		return cli.editStudent(ctx, args[1:])
	case "list":
		return cli.listStudents(ctx, args[1:])
	case "show":
		return cli.showStudent(ctx, args[1:])
	case "delete":
		return cli.deleteStudents(ctx, args[1:])
	case "export":
		return cli.exportStudents(ctx, args[1:])
	default:
		cli.studentUsage()
		return errHelp
	}
}

// studentFlags binds every student detail to fs and returns the image path flag.
func studentFlags(fs *flag.FlagSet, ns *student.NewStudent) *string {
	fs.StringVar(&ns.Name, "name", "", "full name")
	fs.StringVar(&ns.RollNo, "roll", "", "roll number, unique within the class")
	fs.StringVar(&ns.ClassName, "class", "", "class code (PLAY, CLASS1..CLASS8)")
	fs.StringVar(&ns.Gender, "gender", "", "MALE, FEMALE or OTHERS")
	fs.StringVar(&ns.DateOfBirth, "dob", "", "date of birth (dd-MM-yyyy)")
	fs.StringVar(&ns.IDType, "idtype", "", "NID, BIRTH or NONE")
	fs.StringVar(&ns.NIDOrBirthReg, "nid", "", "NID or birth registration number")
	fs.StringVar(&ns.FatherName, "father", "", "father's name")
	fs.StringVar(&ns.MotherName, "mother", "", "mother's name")
	fs.StringVar(&ns.Phone, "phone", "", "phone number")
	fs.StringVar(&ns.Religion, "religion", "", "religion code")
	fs.StringVar(&ns.BloodGroup, "blood", "", "blood group (A+, O-, ...)")
	fs.StringVar(&ns.Address, "address", "", "address")
	fs.StringVar(&ns.Country, "country", "", "BD or IN")
	fs.StringVar(&ns.AdmissionDate, "admission", "", "admission date (dd-MM-yyyy)")
	return fs.String("image", "", "path of a photo (jpeg, png or gif)")
}

func (cli *commandLine) addStudent(ctx context.Context, args []string) error {
	var ns student.NewStudent
	fs := cli.flagSet("student add")
	imagePath := studentFlags(fs, &ns)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var err error
	if ns.Image, err = readFile(*imagePath); err != nil {
		return err
	}
	s, err := cli.stdSvc.Create(ctx, ns)
	if err != nil {
		return err
	}
	cli.success("Student added: #" + strconv.Itoa(s.ID) + " " + s.Name)
	return nil
}

func (cli *commandLine) editStudent(ctx context.Context, args []string) error {
	var us student.UpdateStudent
	fs := cli.flagSet("student edit")
	id := fs.Int("id", 0, "student id")
	imagePath := studentFlags(fs, &us.NewStudent)
	fs.BoolVar(&us.RemoveImage, "remove-image", false, "remove the photo")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		fs.Usage()
		return errHelp
	}

	var err error
	if us.Image, err = readFile(*imagePath); err != nil {
		return err
	}
	s, err := cli.stdSvc.Update(ctx, *id, us)
	if err != nil {
		return err
	}
	cli.success("Student updated: #" + strconv.Itoa(s.ID) + " " + s.Name)
	return nil
}

func (cli *commandLine) listStudents(ctx context.Context, args []string) error {
	var filter student.QueryFilter
	fs := cli.flagSet("student list")
	fs.StringVar(&filter.Search, "search", "", "name or roll number contains")
	fs.StringVar(&filter.ClassName, "class", "", "class code")
	fs.StringVar(&filter.Gender, "gender", "", "gender code")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	students, err := cli.stdSvc.Filter(ctx, filter)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		cli.println("No students found.")
		return nil
	}
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	printRow(w, "ID", "ROLL", "NAME", "CLASS", "GENDER", "AGE")
	for _, s := range students {
		printRow(w, strconv.Itoa(s.ID), s.RollNo, s.Name, s.ClassName, s.Gender, s.CurrentAge())
	}
	_ = w.Flush()
	cli.printf("%d student(s)\n", len(students))
	return nil
}

func (cli *commandLine) showStudent(ctx context.Context, args []string) error {
	fs := cli.flagSet("student show")
	id := fs.Int("id", 0, "student id")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		fs.Usage()
		return errHelp
	}

	s, err := cli.stdSvc.Get(ctx, *id)
	if err != nil {
		return err
	}
	cli.field("ID", strconv.Itoa(s.ID))
	cli.field("Name", s.Name)
	cli.field("Roll No", s.RollNo)
	cli.field("Class", s.ClassName)
	cli.field("Gender", s.Gender)
	cli.field("Date Of Birth", s.DateOfBirth)
	cli.field("Age", s.CurrentAge())
	cli.field("ID Type", s.IDType)
	cli.field("NID/Birth Reg", s.NIDOrBirthReg)
	cli.field("Father", s.FatherName)
	cli.field("Mother", s.MotherName)
	cli.field("Phone", s.Phone)
	cli.field("Religion", s.Religion)
	cli.field("Blood Group", s.BloodGroup)
	cli.field("Address", s.Address)
	cli.field("Country", s.Country)
	cli.field("Admission", s.AdmissionDate)
	if s.HasImage() {
		cli.field("Photo", strconv.Itoa(len(s.Image))+" bytes")
	}
	return nil
}

func (cli *commandLine) deleteStudents(ctx context.Context, args []string) error {
	fs := cli.flagSet("student delete")
	idList := fs.String("id", "", "comma separated student ids")
	all := fs.Bool("all", false, "delete every student")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *all {
		if err := cli.stdSvc.DeleteAll(ctx); err != nil {
			return err
		}
		cli.success("All students deleted")
		return nil
	}

	ids := make([]int, 0)
	for _, item := range splitList(*idList) {
		id, err := strconv.Atoi(item)
		if err != nil || id <= 0 {
			fs.Usage()
			return errHelp
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		fs.Usage()
		return errHelp
	}
	if err := cli.stdSvc.Delete(ctx, ids...); err != nil {
		return err
	}
	cli.success(strconv.Itoa(len(ids)) + " student(s) deleted")
	return nil
}

func (cli *commandLine) exportStudents(ctx context.Context, args []string) error {
	fs := cli.flagSet("student export")
	id := fs.Int("id", 0, "export the PDF profile of this student")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *id > 0 {
		s, err := cli.stdSvc.Get(ctx, *id)
		if err != nil {
			return err
		}
		sch, err := cli.letterhead(ctx)
		if err != nil {
			return err
		}
		return cli.export("student profile", func() (string, error) {
			return cli.exporter.StudentPDF(sch, s)
		})
	}

	students, err := cli.stdSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	return cli.export("student list", func() (string, error) {
		return cli.exporter.StudentsExcel(students)
	})
}
